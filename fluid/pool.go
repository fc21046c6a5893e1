package fluid

import (
	"runtime"
	"sync"
)

// parallelThreshold is the minimum row count worth splitting across workers.
// Below this the goroutine handoff costs more than the pass itself.
const parallelThreshold = 32

// band is a range of rows for a worker to process.
type band struct {
	y0, y1 int
	fn     func(y0, y1 int)
}

// pool runs grid passes over row bands on persistent workers. Each call to
// run is a full barrier: it returns only once every band has been written.
type pool struct {
	numWorkers int

	workChan chan band
	doneChan chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
}

func newPool(numWorkers int) *pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	return &pool{numWorkers: numWorkers}
}

// start launches the worker goroutines.
func (p *pool) start() {
	if p == nil || p.running || p.numWorkers < 2 {
		return
	}

	p.workChan = make(chan band, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// stop signals all workers to exit and waits for them.
func (p *pool) stop() {
	if p == nil || !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

func (p *pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case b, ok := <-p.workChan:
			if !ok {
				return
			}
			b.fn(b.y0, b.y1)
			p.doneChan <- struct{}{}
		}
	}
}

// run applies fn to rows [0, rows) and blocks until every row is done.
// A nil or stopped pool runs fn inline.
func (p *pool) run(rows int, fn func(y0, y1 int)) {
	if p == nil || !p.running || rows < parallelThreshold {
		fn(0, rows)
		return
	}

	chunks := p.numWorkers
	if chunks > rows {
		chunks = rows
	}
	size := (rows + chunks - 1) / chunks

	sent := 0
	for y0 := 0; y0 < rows; y0 += size {
		y1 := y0 + size
		if y1 > rows {
			y1 = rows
		}
		p.workChan <- band{y0: y0, y1: y1, fn: fn}
		sent++
	}
	for i := 0; i < sent; i++ {
		<-p.doneChan
	}
}
