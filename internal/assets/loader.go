package assets

import (
	"sync"

	"golang.org/x/sync/errgroup"

	"mirgo/internal/engine"
)

type loadJob struct {
	id     engine.ID
	path   string
	decode func([]byte) (any, error)
}

type loadResult struct {
	id      engine.ID
	decoded any
	err     error
}

// loader reads and decodes files on a bounded set of goroutines. Results are
// collected until the main thread drains them.
type loader struct {
	fs    FileSystem
	group errgroup.Group

	mu       sync.Mutex
	queue    []loadJob
	done     []loadResult
	inFlight int
}

func newLoader(fs FileSystem, workers int) *loader {
	if workers < 1 {
		workers = 1
	}
	l := &loader{fs: fs}
	l.group.SetLimit(workers)
	return l
}

func (l *loader) submit(job loadJob) {
	l.mu.Lock()
	l.queue = append(l.queue, job)
	l.inFlight++
	l.mu.Unlock()
	l.pump()
}

// pump hands queued jobs to free workers without blocking.
func (l *loader) pump() {
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return
		}
		job := l.queue[0]
		l.mu.Unlock()

		if !l.group.TryGo(func() error { l.run(job); return nil }) {
			return
		}

		l.mu.Lock()
		l.queue = l.queue[1:]
		l.mu.Unlock()
	}
}

func (l *loader) run(job loadJob) {
	res := loadResult{id: job.id}
	data, err := readFile(l.fs, job.path)
	if err == nil {
		res.decoded, err = job.decode(data)
	}
	res.err = err

	l.mu.Lock()
	l.done = append(l.done, res)
	l.mu.Unlock()
}

// drain returns finished results and refills the workers.
func (l *loader) drain() []loadResult {
	l.pump()
	l.mu.Lock()
	out := l.done
	l.done = nil
	l.inFlight -= len(out)
	l.mu.Unlock()
	return out
}

func (l *loader) pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inFlight
}

// wait blocks until every queued job has run.
func (l *loader) wait() {
	for {
		l.pump()
		_ = l.group.Wait()
		l.mu.Lock()
		empty := len(l.queue) == 0
		l.mu.Unlock()
		if empty {
			return
		}
	}
}

func readFile(fs FileSystem, path string) ([]byte, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.ReadAll()
}
