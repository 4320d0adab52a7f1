// worker/pool.go
package worker

import "sync"

type Job[T any] func() T

type Result[T any] struct {
	JobID  string
	Output T
}

type Pool[T any] struct {
	jobs    chan jobWrapper[T]
	results chan Result[T]
	wg      sync.WaitGroup
	once    sync.Once
}

type jobWrapper[T any] struct {
	id string
	fn Job[T]
}

func NewPool[T any](workerCount int, bufferSize int) *Pool[T] {
	if workerCount < 1 {
		workerCount = 1
	}
	p := &Pool[T]{
		jobs:    make(chan jobWrapper[T], bufferSize),
		results: make(chan Result[T], bufferSize),
	}

	p.wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go p.worker()
	}

	return p
}

func (p *Pool[T]) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		output := job.fn()
		p.results <- Result[T]{
			JobID:  job.id,
			Output: output,
		}
	}
}

func (p *Pool[T]) Submit(id string, fn Job[T]) {
	p.jobs <- jobWrapper[T]{id: id, fn: fn}
}

func (p *Pool[T]) Results() <-chan Result[T] {
	return p.results
}

// Close stops accepting jobs. Results is closed once every submitted job
// has delivered its output. Submit must not be called after Close.
func (p *Pool[T]) Close() {
	p.once.Do(func() {
		close(p.jobs)
		go func() {
			p.wg.Wait()
			close(p.results)
		}()
	})
}

// Run executes every job on a fresh pool and returns the outputs keyed by
// job id. It returns once all jobs are done.
func Run[T any](workerCount int, jobs map[string]Job[T]) map[string]T {
	p := NewPool[T](workerCount, len(jobs))

	go func() {
		for id, fn := range jobs {
			p.Submit(id, fn)
		}
		p.Close()
	}()

	out := make(map[string]T, len(jobs))
	for r := range p.Results() {
		out[r.JobID] = r.Output
	}
	return out
}
