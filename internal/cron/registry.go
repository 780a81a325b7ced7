package cron

import "context"

// Job is a scheduled task run by the sweep worker.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Registry holds the jobs a worker executes each cycle.
type Registry struct {
	jobs []Job
}

func NewRegistry(jobs ...Job) *Registry {
	registry := &Registry{}
	for _, job := range jobs {
		if job == nil {
			continue
		}
		registry.jobs = append(registry.jobs, job)
	}
	return registry
}

func (r *Registry) Register(job Job) {
	if job == nil {
		return
	}
	r.jobs = append(r.jobs, job)
}

// Jobs returns the registered jobs in registration order.
func (r *Registry) Jobs() []Job {
	jobs := make([]Job, len(r.jobs))
	copy(jobs, r.jobs)
	return jobs
}
