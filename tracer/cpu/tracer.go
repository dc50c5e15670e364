// Package cpu implements a tracer that runs the G-buffer stages on a
// dedicated worker goroutine.
package cpu

import (
	"fmt"
	"sync"
	"time"

	"github.com/achilleasa/polaris-gbuf/log"
	"github.com/achilleasa/polaris-gbuf/tracer"
)

// Max number of queued block requests per tracer.
const blockQueueSize = 16

type cpuTracer struct {
	logger log.Logger

	sync.Mutex
	wg sync.WaitGroup

	// The tracer id.
	id string

	// Relative speed used by the block scheduler.
	speed float32

	// The attached world.
	worldMu sync.RWMutex
	world   tracer.World

	// A channel for receiving block requests from the renderer.
	blockReqChan chan tracer.BlockRequest

	// A channel for signaling the worker to exit.
	closeChan chan struct{}

	// Statistics for last rendered block.
	statsMu sync.Mutex
	stats   tracer.Stats
}

// Create a new cpu tracer and start its worker.
func NewTracer(id string, speed float32) tracer.Tracer {
	if speed <= 0 {
		speed = 1
	}

	tr := &cpuTracer{
		logger:       log.New(fmt.Sprintf("cpu tracer (%s)", id)),
		id:           id,
		speed:        speed,
		blockReqChan: make(chan tracer.BlockRequest, blockQueueSize),
	}
	tr.startWorker()
	return tr
}

// Get tracer id.
func (tr *cpuTracer) Id() string {
	return tr.id
}

// Get the computation speed estimate.
func (tr *cpuTracer) SpeedEstimate() float32 {
	return tr.speed
}

// Attach the world to trace against.
func (tr *cpuTracer) Setup(world tracer.World) error {
	tr.Lock()
	defer tr.Unlock()

	if tr.closeChan == nil {
		return ErrTracerClosed
	}

	tr.worldMu.Lock()
	tr.world = world
	tr.worldMu.Unlock()
	return nil
}

// Shutdown the tracer worker.
func (tr *cpuTracer) Close() {
	tr.Lock()
	defer tr.Unlock()

	// If the worker is running shut it down
	if tr.closeChan != nil {
		tr.closeChan <- struct{}{}

		// wait for worker to ack close and shutdown channel
		<-tr.closeChan
		close(tr.closeChan)
		tr.closeChan = nil
	}
	tr.wg.Wait()

	tr.worldMu.Lock()
	tr.world = nil
	tr.worldMu.Unlock()
}

// Enqueue block request.
func (tr *cpuTracer) Enqueue(blockReq tracer.BlockRequest) {
	select {
	case tr.blockReqChan <- blockReq:
	default:
		tr.logger.Error("request processor did not receive block request")
		blockReq.ErrChan <- ErrQueueOverflow
	}
}

// Retrieve last block statistics.
func (tr *cpuTracer) Stats() *tracer.Stats {
	tr.statsMu.Lock()
	defer tr.statsMu.Unlock()
	stats := tr.stats
	return &stats
}

// Spawn a go-routine to process block render requests.
func (tr *cpuTracer) startWorker() {
	// Worker already running
	if tr.closeChan != nil {
		return
	}

	tr.closeChan = make(chan struct{})
	readyChan := make(chan struct{})
	tr.wg.Add(1)
	go func() {
		defer tr.wg.Done()
		close(readyChan)
		for {
			select {
			case blockReq := <-tr.blockReqChan:
				startTime := time.Now()
				err := tr.renderBlock(&blockReq)
				if err != nil {
					blockReq.ErrChan <- err
					continue
				}

				tr.statsMu.Lock()
				tr.stats.BlockH = blockReq.BlockH
				tr.stats.RenderTime = time.Since(startTime)
				tr.statsMu.Unlock()

				blockReq.DoneChan <- blockReq.BlockH
			case <-tr.closeChan:
				// Ack close
				tr.closeChan <- struct{}{}
				return
			}
		}
	}()

	// Wait for go-routine to start
	<-readyChan
}

// Render block. Panics raised by the stages are reported as errors.
func (tr *cpuTracer) renderBlock(blockReq *tracer.BlockRequest) (err error) {
	tr.worldMu.RLock()
	world := tr.world
	tr.worldMu.RUnlock()

	if world == nil {
		return ErrNoWorld
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cpu tracer (%s): %s stage failed for rows %d-%d: %v", tr.id, blockReq.Stage, blockReq.BlockY, blockReq.BlockY+blockReq.BlockH, r)
		}
	}()

	tr.logger.Debugf("running %s stage for rows %d-%d", blockReq.Stage, blockReq.BlockY, blockReq.BlockY+blockReq.BlockH)
	tracer.RenderBlock(world, blockReq)
	return nil
}
