package kvstore

import (
	"github.com/mattermost/mattermost/server/public/plugin"
	"github.com/mattermost/mattermost/server/public/pluginapi/cluster"
)

// Job represents a scheduled job that can be closed
type Job interface {
	Close() error
}

// JobScheduler schedules cluster-aware jobs. Only one server in a cluster
// runs a given job id at a time.
type JobScheduler interface {
	Schedule(jobID string, nextWaitInterval cluster.NextWaitInterval, callback func()) (Job, error)
}

// ClusterJobScheduler schedules jobs with the Mattermost cluster job system
type ClusterJobScheduler struct {
	api plugin.API
}

// NewClusterJobScheduler creates a new cluster job scheduler
func NewClusterJobScheduler(api plugin.API) *ClusterJobScheduler {
	return &ClusterJobScheduler{api: api}
}

// Schedule creates a new cluster-aware scheduled job
func (s *ClusterJobScheduler) Schedule(jobID string, nextWaitInterval cluster.NextWaitInterval, callback func()) (Job, error) {
	return cluster.Schedule(s.api, jobID, nextWaitInterval, callback)
}
