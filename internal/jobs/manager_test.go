package jobs

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/openoptions/go-settings-registry/model"
)

func TestJobManager_CreateJob(t *testing.T) {
	manager := NewManager(2)
	defer manager.Stop()

	jobID := manager.CreateJob(model.JobTypePersist, map[string]string{
		"trigger": "test",
	})

	if jobID == "" {
		t.Error("Expected non-empty job ID")
	}

	job, err := manager.GetJob(jobID)
	if err != nil {
		t.Fatalf("Failed to get created job: %v", err)
	}

	if job.Type != model.JobTypePersist {
		t.Errorf("Expected job type %s, got %s", model.JobTypePersist, job.Type)
	}

	if job.Status != model.JobStatusPending {
		t.Errorf("Expected job status %s, got %s", model.JobStatusPending, job.Status)
	}

	if job.Metadata["trigger"] != "test" {
		t.Errorf("Expected metadata to survive, got %v", job.Metadata)
	}
}

func TestJobManager_ExecuteJob(t *testing.T) {
	manager := NewManager(2)
	manager.Start()
	defer manager.Stop()

	jobID := manager.CreateJob(model.JobTypeResetAll, nil)

	err := manager.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
		manager.UpdateJobProgress(jobID, 50, 100, "Halfway done")
		time.Sleep(10 * time.Millisecond) // Simulate work
		manager.UpdateJobProgress(jobID, 100, 100, "Completed")
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to execute job: %v", err)
	}

	// Wait for the job to finish
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		job, err := manager.GetJob(jobID)
		if err != nil {
			t.Fatalf("Failed to get job: %v", err)
		}
		if job.Status == model.JobStatusCompleted {
			if job.Progress == nil || job.Progress.Current != 100 {
				t.Errorf("Expected progress 100, got %+v", job.Progress)
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("Job did not complete in time")
}

func TestJobManager_FailedJob(t *testing.T) {
	manager := NewManager(1)
	manager.Start()
	defer manager.Stop()

	jobID := manager.CreateJob(model.JobTypePersist, nil)

	err := manager.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
		return fmt.Errorf("disk on fire")
	})
	if err != nil {
		t.Fatalf("Failed to execute job: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		job, _ := manager.GetJob(jobID)
		if job.Status == model.JobStatusFailed {
			if job.Error != "disk on fire" {
				t.Errorf("Expected error message to survive, got %q", job.Error)
			}
			if manager.GetJobSuccessRate() != 0.0 {
				t.Errorf("Expected success rate 0.0, got %f", manager.GetJobSuccessRate())
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("Job did not fail in time")
}

func TestJobManager_GetJobNotFound(t *testing.T) {
	manager := NewManager(1)
	defer manager.Stop()

	if _, err := manager.GetJob("no-such-job"); err == nil {
		t.Error("Expected an error for an unknown job ID")
	}
}

func TestJobManager_ListJobsFiltersByStatus(t *testing.T) {
	manager := NewManager(1)
	defer manager.Stop()

	manager.CreateJob(model.JobTypePersist, nil)
	manager.CreateJob(model.JobTypeResetAll, nil)

	all := manager.ListJobs(nil)
	if len(all) != 2 {
		t.Errorf("Expected 2 jobs, got %d", len(all))
	}

	pending := model.JobStatusPending
	filtered := manager.ListJobs(&pending)
	if len(filtered) != 2 {
		t.Errorf("Expected 2 pending jobs, got %d", len(filtered))
	}

	completed := model.JobStatusCompleted
	if jobs := manager.ListJobs(&completed); len(jobs) != 0 {
		t.Errorf("Expected no completed jobs, got %d", len(jobs))
	}
}
