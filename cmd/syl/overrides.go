package main

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/groblegark/syllabus/internal/plan"
)

// planFile is the TOML schema for plan overrides:
//
//	budget = 14.0
//
//	[effort]
//	"strings.basics" = 2.5
//
//	[priority]
//	"collections" = 10.0
type planFile struct {
	Budget   float64            `toml:"budget"`
	Effort   map[string]float64 `toml:"effort"`
	Priority map[string]float64 `toml:"priority"`
}

// loadPlanFile reads planner options from a TOML file.
func loadPlanFile(path string) (*plan.Options, error) {
	var pf planFile
	if _, err := toml.DecodeFile(path, &pf); err != nil {
		return nil, fmt.Errorf("parse plan file %s: %w", path, err)
	}
	return &plan.Options{
		Budget:            pf.Budget,
		EffortOverrides:   pf.Effort,
		PriorityOverrides: pf.Priority,
	}, nil
}
