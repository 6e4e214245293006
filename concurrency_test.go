package netcdf_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/apexys/netcdf"
	"github.com/apexys/netcdf/engine"
)

// probeEngine wraps another engine and trips a counter whenever two
// calls are in flight at once. The layer promises the engine single
// entry, so the counter must stay at zero no matter how many
// goroutines hammer the public API.
type probeEngine struct {
	engine.Engine
	busy     atomic.Int32
	overlaps atomic.Int32
}

func (p *probeEngine) enter() {
	if !p.busy.CompareAndSwap(0, 1) {
		p.overlaps.Add(1)
	}
}

func (p *probeEngine) exit() { p.busy.Store(0) }

func (p *probeEngine) DimLen(g engine.GroupID, d engine.DimID) (uint64, error) {
	p.enter()
	defer p.exit()
	return p.Engine.DimLen(g, d)
}

func (p *probeEngine) PutVara(g engine.GroupID, v engine.VarID, start, count []uint64, data any) error {
	p.enter()
	defer p.exit()
	return p.Engine.PutVara(g, v, start, count, data)
}

func (p *probeEngine) GetVara(g engine.GroupID, v engine.VarID, start, count []uint64) (any, error) {
	p.enter()
	defer p.exit()
	return p.Engine.GetVara(g, v, start, count)
}

func (p *probeEngine) DefineDim(g engine.GroupID, name string, length uint64) (engine.DimID, error) {
	p.enter()
	defer p.exit()
	return p.Engine.DefineDim(g, name, length)
}

func (p *probeEngine) PutAtt(g engine.GroupID, v engine.VarID, name string, value any) error {
	p.enter()
	defer p.exit()
	return p.Engine.PutAtt(g, v, name, value)
}

func TestEngineCallsNeverOverlap(t *testing.T) {
	probe := &probeEngine{Engine: engine.NewMemory()}
	f, err := netcdf.CreateWith(probe, "probe.nc")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()

	root, err := f.RootMut()
	if err != nil {
		t.Fatalf("root mut: %v", err)
	}
	d, err := root.AddUnlimitedDimension("time")
	if err != nil {
		t.Fatalf("add dimension: %v", err)
	}
	v, err := root.AddVariable("value", netcdf.Double, "time")
	if err != nil {
		t.Fatalf("add variable: %v", err)
	}
	if err := v.Put([]uint64{0}, []uint64{1}, []float64{0}); err != nil {
		t.Fatalf("seed put: %v", err)
	}

	const workers = 8
	const rounds = 200
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				switch w % 4 {
				case 0:
					d.Len()
				case 1:
					v.Get([]uint64{0}, []uint64{1})
				case 2:
					v.Put([]uint64{0}, []uint64{1}, []float64{float64(i)})
				case 3:
					v.AddAttribute("round", int32(i))
				}
			}
		}(w)
	}
	wg.Wait()

	if n := probe.overlaps.Load(); n != 0 {
		t.Errorf("observed %d overlapping engine calls", n)
	}
}

// Read views are shared: unsynchronized readers over a settled tree
// must not race. Run with -race to make this meaningful.
func TestConcurrentReaders(t *testing.T) {
	f, err := netcdf.CreateWith(engine.NewMemory(), "readers.nc")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	root, _ := f.RootMut()
	root.AddDimension("x", 4)
	sub, _ := root.AddGroup("sub")
	sub.AddVariable("v", netcdf.Int, "x")
	root.AddAttribute("title", "readers")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				g := f.Group("sub")
				if g == nil {
					t.Error("group vanished")
					return
				}
				v := g.Variable("v")
				if v == nil || v.Len() != 4 {
					t.Error("variable wrong")
					return
				}
				if f.Attribute("title") == nil {
					t.Error("attribute vanished")
					return
				}
				_ = g.Dimension("x").Len()
				_ = g.Path()
			}
		}()
	}
	wg.Wait()
}
