package workers

import (
	"log"
	"sync"

	"github.com/familyalbumhq/albumbackend/repository"
)

// CountJob asks for the usage-count cache of the given entities to be
// recomputed. An empty EntityIDs slice means the whole table.
type CountJob struct {
	EntityIDs []uint
}

// CountRefresher recomputes the derived NameEntity usage counts in the
// background, so tag writes return without waiting on the maintenance
// UPDATE. Counts are a cache; readers never rely on them alone, so a
// dropped job only delays convergence.
type CountRefresher struct {
	JobQueue chan CountJob
	Entities repository.EntityRepositoryInterface
	Wg       sync.WaitGroup

	closeOnce sync.Once
}

func NewCountRefresher(entities repository.EntityRepositoryInterface, queueSize, numWorkers int) *CountRefresher {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	cr := &CountRefresher{
		JobQueue: make(chan CountJob, queueSize),
		Entities: entities,
	}
	cr.Wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go cr.worker(i)
	}
	log.Printf("Started %d usage-count worker(s) with queue size %d", numWorkers, queueSize)
	return cr
}

func (cr *CountRefresher) worker(id int) {
	defer cr.Wg.Done()
	for job := range cr.JobQueue {
		if err := cr.Entities.RefreshUsageCounts(job.EntityIDs); err != nil {
			log.Printf("Worker %d: ERROR refreshing usage counts: %v", id, err)
		}
	}
	log.Printf("Usage-count worker %d stopping: job queue closed", id)
}

// Enqueue schedules a refresh without blocking. Returns false when the
// queue is full and the job was dropped.
func (cr *CountRefresher) Enqueue(entityIDs []uint) bool {
	select {
	case cr.JobQueue <- CountJob{EntityIDs: entityIDs}:
		return true
	default:
		log.Printf("Usage-count queue full, dropping refresh for %d entities", len(entityIDs))
		return false
	}
}

// Stop closes the queue and waits for in-flight jobs to finish
func (cr *CountRefresher) Stop() {
	cr.closeOnce.Do(func() { close(cr.JobQueue) })
	cr.Wg.Wait()
}
