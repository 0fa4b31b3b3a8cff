// Package worker provides a fixed-size goroutine pool for executing jobs.
//
// A Pool owns N long-lived workers that compete for jobs on one shared,
// unbounded FIFO intake. Each submitted job is run exactly once by exactly
// one worker. Submit never blocks.
//
// # Basic Usage
//
//	pool, err := worker.Build(4)
//	if err != nil {
//	    // errors.Is(err, worker.ErrPoolCreation)
//	}
//	defer pool.Shutdown()
//
//	for i := 0; i < 100; i++ {
//	    if err := pool.Submit(func() {
//	        // do work
//	    }); err != nil {
//	        // worker.ErrPoolClosed after shutdown has begun
//	    }
//	}
//
// # Shutdown
//
// Shutdown closes the intake and joins every worker in construction order.
// Jobs already queued are still executed; Shutdown returns only when every
// worker goroutine has exited. Submitting after shutdown has begun returns
// ErrPoolClosed instead of dropping the job silently.
//
// # Panics
//
// A job that panics is recovered inside its worker. The panic is logged,
// published as an event and passed to the PanicHandler if one is set; the
// worker then goes back to waiting for the next job.
//
// # Group
//
// Group is an alternative executor built on errgroup. It spawns a goroutine
// per job up to a concurrency limit and blocks Submit while the limit is
// reached.
package worker
