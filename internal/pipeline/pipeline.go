package pipeline

import (
	"fmt"

	"go.uber.org/zap"
)

// Stage is one step of a build run.
type Stage struct {
	Name string
	Run  func() error
}

// Pipeline executes stages strictly in order.
type Pipeline struct {
	stages []Stage
	log    *zap.Logger
}

func New(log *zap.Logger, stages ...Stage) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{stages: stages, log: log}
}

// Run executes the pipeline. The first failing stage aborts the run: a
// partially bootstrapped compiler environment cannot be trusted to compile
// subsequent units, so there is no continue-and-collect mode here.
func (p *Pipeline) Run() error {
	for _, stage := range p.stages {
		p.log.Info("stage", zap.String("name", stage.Name))
		if err := stage.Run(); err != nil {
			p.log.Error("stage failed", zap.String("name", stage.Name), zap.Error(err))
			return fmt.Errorf("%s: %w", stage.Name, err)
		}
	}
	return nil
}
