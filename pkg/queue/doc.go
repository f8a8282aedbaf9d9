// Package queue runs background work inside the API process.
//
// Producers call Queue.Enqueue with a typed payload; a Worker pulls tasks and
// dispatches them to the handler registered for the payload type. Tasks live
// only in memory: a full buffer rejects new work and a process restart drops
// whatever was pending. Handlers are invoked at most once, with no retries.
//
// A Scheduler runs named periodic handlers on fixed intervals.
//
//	q := queue.New(queue.WithCapacity(256))
//	w := queue.NewWorker(q, queue.WithConcurrency(4), queue.WithLogger(log))
//	w.RegisterHandlers(queue.NewTaskHandler(func(ctx context.Context, t FanOutTask) error { ... }))
//	go w.Run(ctx)
//
//	_ = q.Enqueue(ctx, FanOutTask{RequestID: id})
package queue
