// Package launcher spawns scrape workers as detached child processes.
// A launched worker is never waited on or cancelled: when a caller
// gives up polling, the worker keeps running and may still publish its
// results into the session store afterwards.
package launcher

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"
)

// ProfileJob describes a phase-1 profile discovery run.
type ProfileJob struct {
	Name        string
	SessionID   string
	Email       string
	Field       string
	Specialties []string
}

// CollabJob describes a phase-2 collaborator expansion run.
type CollabJob struct {
	Name       string
	SessionID  string
	ProfileURL string
}

// Launcher starts scrape workers.
type Launcher interface {
	LaunchProfiles(job ProfileJob) error
	LaunchCollaborators(job CollabJob) error
}

// Exec launches workers by re-invoking the binary's scrape subcommands.
type Exec struct {
	// Binary is the worker executable. Empty means the current binary.
	Binary     string
	ConfigPath string
	Log        *log.Logger
}

// NewExec builds a process launcher. binary may be empty to self-exec.
func NewExec(binary, configPath string) (*Exec, error) {
	if binary == "" {
		self, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("launcher: resolve executable: %w", err)
		}
		binary = self
	}
	return &Exec{
		Binary:     binary,
		ConfigPath: configPath,
		Log:        log.New(log.Writer(), "[LAUNCH] ", log.LstdFlags),
	}, nil
}

func (e *Exec) LaunchProfiles(job ProfileJob) error {
	args := []string{"scrape", "profiles",
		"--name", job.Name,
		"--session", job.SessionID,
	}
	if job.Email != "" {
		args = append(args, "--email", job.Email)
	}
	if job.Field != "" {
		args = append(args, "--field", job.Field)
	}
	if len(job.Specialties) > 0 {
		args = append(args, "--specialties", strings.Join(job.Specialties, ","))
	}
	return e.spawn(args)
}

func (e *Exec) LaunchCollaborators(job CollabJob) error {
	args := []string{"scrape", "collaborators",
		"--name", job.Name,
		"--session", job.SessionID,
		"--url", job.ProfileURL,
	}
	return e.spawn(args)
}

// spawn starts the worker and releases it. The child owns its own
// browser and lifetime; output goes nowhere.
func (e *Exec) spawn(args []string) error {
	if e.ConfigPath != "" {
		args = append(args, "--config", e.ConfigPath)
	}
	cmd := exec.Command(e.Binary, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Stdin = nil
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launcher: start worker: %w", err)
	}
	pid := cmd.Process.Pid
	if err := cmd.Process.Release(); err != nil {
		e.Log.Printf("release worker pid %d: %v", pid, err)
	}
	e.Log.Printf("started worker pid %d: %s %s", pid, e.Binary, strings.Join(args, " "))
	return nil
}

var _ Launcher = (*Exec)(nil)
