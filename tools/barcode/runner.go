package barcode

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/cheggaaa/pb/v3"
	log "github.com/sirupsen/logrus"

	common "ontbc_go/utils"
)

// Runner executes a pipeline on local worker slots.
type Runner struct {
	Store    *Store
	WorkDir  string    // <task>.sh and <task>.sh.log go here
	Threads  int       // concurrent tasks, at least 1
	Shell    string    // defaults to "sh"
	Progress io.Writer // progress bar output, nil for none
}

type outcome struct {
	task   *Task
	digest string
	err    error
}

// Run starts every task once all of its upstream tasks are done, skipping
// tasks whose script already completed. After the first failure nothing new
// is started; running tasks are waited for and the failure is returned.
// Cancelling ctx kills running scripts.
func (r *Runner) Run(ctx context.Context, p *Pipeline) error {
	order, err := p.Order()
	if err != nil {
		return err
	}
	threads := r.Threads
	if threads < 1 {
		threads = 1
	}

	var bar *pb.ProgressBar
	if r.Progress != nil {
		bar = pb.Full.New(len(order)).SetWriter(r.Progress).Start()
		defer bar.Finish()
	}
	step := func() {
		if bar != nil {
			bar.Increment()
		}
	}

	waiting := make(map[int64]int, len(order))
	var ready []*Task
	for _, t := range order {
		waiting[t.ID()] = len(p.Upstream(t))
		if waiting[t.ID()] == 0 {
			ready = append(ready, t)
		}
	}
	finished := 0
	complete := func(t *Task) {
		finished++
		step()
		for _, d := range p.Downstream(t) {
			waiting[d.ID()]--
			if waiting[d.ID()] == 0 {
				ready = append(ready, d)
			}
		}
	}

	results := make(chan outcome)
	running := 0
	var failure error
	for {
		for failure == nil && ctx.Err() == nil && len(ready) > 0 && running < threads {
			t := ready[0]
			ready = ready[1:]
			digest := Digest(t.Script)
			done, err := r.Store.Done(t.Name, digest)
			if err != nil {
				failure = err
				break
			}
			if done {
				log.Infof("task %s already done, skip", t.Name)
				complete(t)
				continue
			}
			running++
			go func(t *Task) {
				results <- outcome{task: t, digest: digest, err: r.exec(ctx, t)}
			}(t)
		}
		if running == 0 {
			break
		}

		res := <-results
		running--
		if res.err != nil {
			log.Errorf("task %s failed: %v", res.task.Name, res.err)
			if failure == nil {
				failure = fmt.Errorf("task %s: %w", res.task.Name, res.err)
			}
			continue
		}
		if err := r.Store.MarkDone(res.task.Name, res.digest); err != nil && failure == nil {
			failure = err
		}
		log.Debugf("task %s done", res.task.Name)
		complete(res.task)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if failure != nil {
		return failure
	}
	if finished != len(order) {
		return fmt.Errorf("%d of %d tasks never became ready", len(order)-finished, len(order))
	}
	return nil
}

// exec writes the task script and runs it in the task dir.
func (r *Runner) exec(ctx context.Context, t *Task) error {
	if _, err := common.Mkdir(t.Dir); err != nil {
		return err
	}
	script := filepath.Join(r.WorkDir, t.Name+".sh")
	if err := os.WriteFile(script, []byte("set -e\n"+t.Script), 0o755); err != nil {
		return err
	}
	logf, err := os.Create(script + ".log")
	if err != nil {
		return err
	}
	defer logf.Close()

	shell := r.Shell
	if shell == "" {
		shell = "sh"
	}
	log.Infof("run task %s", t.Name)
	cmd := exec.CommandContext(ctx, shell, script)
	cmd.Dir = t.Dir
	cmd.Stdout = logf
	cmd.Stderr = logf
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w (log: %s.log)", err, script)
	}
	return nil
}
