package cpu

import (
	"strings"
	"testing"
	"time"

	"github.com/achilleasa/polaris-gbuf/gbuffer"
	"github.com/achilleasa/polaris-gbuf/scene"
	"github.com/achilleasa/polaris-gbuf/tracer"
	"github.com/achilleasa/polaris-gbuf/types"
)

func TestTracerRendersBlocks(t *testing.T) {
	world, params := setupWorld(t, "pool", 16, 8)
	fb := gbuffer.NewFramebuffers(params.Width, params.Height)

	tr := NewTracer("test", 1)
	defer tr.Close()
	if err := tr.Setup(world); err != nil {
		t.Fatal(err)
	}

	for _, stage := range []tracer.Stage{tracer.PrimaryStage, tracer.SecondaryStage} {
		doneChan := make(chan uint32, 2)
		errChan := make(chan error, 2)
		tr.Enqueue(tracer.BlockRequest{BlockY: 0, BlockH: 4, Stage: stage, Params: params, Framebuffers: fb, DoneChan: doneChan, ErrChan: errChan})
		tr.Enqueue(tracer.BlockRequest{BlockY: 4, BlockH: 4, Stage: stage, Params: params, Framebuffers: fb, DoneChan: doneChan, ErrChan: errChan})

		rows := waitBlocks(t, 2, doneChan, errChan)
		if rows != params.Height {
			t.Fatalf("[%s] expected %d rendered rows; got %d", stage, params.Height, rows)
		}
	}

	if stats := tr.Stats(); stats.BlockH != 4 {
		t.Fatalf("expected last block height 4; got %d", stats.BlockH)
	}

	// Blocks split over a single worker must match a full frame pass
	expFb := gbuffer.NewFramebuffers(params.Width, params.Height)
	tracer.RenderBlock(world, &tracer.BlockRequest{BlockH: params.Height, Stage: tracer.PrimaryStage, Params: params, Framebuffers: expFb})
	tracer.RenderBlock(world, &tracer.BlockRequest{BlockH: params.Height, Stage: tracer.SecondaryStage, Params: params, Framebuffers: expFb})
	if !fb.Equal(expFb) {
		t.Fatal("expected block rendering to match a single pass render")
	}
}

func TestTracerWithoutWorld(t *testing.T) {
	_, params := setupWorld(t, "mirror", 4, 2)
	tr := NewTracer("test", 1)
	defer tr.Close()

	doneChan := make(chan uint32, 1)
	errChan := make(chan error, 1)
	tr.Enqueue(tracer.BlockRequest{BlockH: 2, Params: params, Framebuffers: gbuffer.NewFramebuffers(4, 2), DoneChan: doneChan, ErrChan: errChan})

	select {
	case err := <-errChan:
		if err != ErrNoWorld {
			t.Fatalf("expected error %v; got %v", ErrNoWorld, err)
		}
	case <-doneChan:
		t.Fatal("expected block to fail")
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for block")
	}
}

func TestTracerRecoversFromPanics(t *testing.T) {
	_, params := setupWorld(t, "mirror", 4, 2)
	tr := NewTracer("test", 1)
	defer tr.Close()
	if err := tr.Setup(panicWorld{}); err != nil {
		t.Fatal(err)
	}

	doneChan := make(chan uint32, 1)
	errChan := make(chan error, 1)
	tr.Enqueue(tracer.BlockRequest{BlockH: 2, Params: params, Framebuffers: gbuffer.NewFramebuffers(4, 2), DoneChan: doneChan, ErrChan: errChan})

	select {
	case err := <-errChan:
		if !strings.Contains(err.Error(), "primary stage failed") {
			t.Fatalf("expected stage failure error; got %v", err)
		}
	case <-doneChan:
		t.Fatal("expected block to fail")
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for block")
	}
}

func TestTracerClose(t *testing.T) {
	tr := NewTracer("test", 0)
	if speed := tr.SpeedEstimate(); speed != 1 {
		t.Fatalf("expected default speed 1; got %f", speed)
	}

	tr.Close()
	if err := tr.Setup(panicWorld{}); err != ErrTracerClosed {
		t.Fatalf("expected error %v; got %v", ErrTracerClosed, err)
	}

	// Closing twice is a no-op
	tr.Close()
}

func setupWorld(t *testing.T, name string, w, h uint32) (*scene.World, *tracer.FrameParams) {
	sc, err := scene.Builtin(name)
	if err != nil {
		t.Fatal(err)
	}
	world, err := scene.NewWorld(sc)
	if err != nil {
		t.Fatal(err)
	}

	sc.Camera.SetupProjection(float32(w) / float32(h))
	view := scene.NewFrameView(sc.Camera, nil)

	params := tracer.DefaultFrameParams()
	params.Prepare(&view, w, h)
	params.Portal = tracer.NewPortalTransform(sc.Portal)
	if err = params.Validate(); err != nil {
		t.Fatal(err)
	}
	return world, &params
}

func waitBlocks(t *testing.T, count int, doneChan <-chan uint32, errChan <-chan error) uint32 {
	var rows uint32
	for i := 0; i < count; i++ {
		select {
		case h := <-doneChan:
			rows += h
		case err := <-errChan:
			t.Fatal(err)
		case <-time.After(10 * time.Second):
			t.Fatal("timeout waiting for blocks")
		}
	}
	return rows
}

type panicWorld struct{}

func (panicWorld) TraceRay(_, _ types.Vec3, _ scene.TraceOptions) scene.Payload {
	panic("trace failed")
}
func (panicWorld) DecodePrimary(scene.Payload, scene.PrimaryQuery) scene.Surface {
	return scene.Surface{}
}
func (panicWorld) DecodeReflection(scene.Payload, scene.SecondaryQuery) scene.Surface {
	return scene.Surface{}
}
func (panicWorld) DecodeRefraction(scene.Payload, scene.SecondaryQuery) scene.Surface {
	return scene.Surface{}
}
func (panicWorld) Sky(types.Vec3) types.Vec3 {
	return types.Vec3{}
}
