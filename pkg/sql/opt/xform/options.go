// Copyright 2024 The Cockroach Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

package xform

import (
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v2"
)

// Options configures the optimizer. They are usually loaded from a YAML file:
//
//	partition_pruning: true
//	split_predicates: true
//	max_workers: 4
//	max_rounds: 8
//
// Fields that are missing from the file keep their default values.
type Options struct {
	// PartitionPruning enables the PruneScanPartitions rule.
	PartitionPruning bool `yaml:"partition_pruning"`
	// SplitPredicates enables the SplitScanPredicates rule.
	SplitPredicates bool `yaml:"split_predicates"`
	// MaxWorkers bounds the number of alternatives explored concurrently.
	MaxWorkers int `yaml:"max_workers"`
	// MaxRounds bounds the number of exploration rounds.
	MaxRounds int `yaml:"max_rounds"`
}

// DefaultOptions returns the options used when no configuration is given.
func DefaultOptions() Options {
	return Options{
		PartitionPruning: true,
		SplitPredicates:  true,
		MaxWorkers:       4,
		MaxRounds:        8,
	}
}

// Validate returns an error if the options are out of range.
func (o Options) Validate() error {
	if o.MaxWorkers < 1 {
		return errors.Newf("max_workers must be at least 1, got %d", o.MaxWorkers)
	}
	if o.MaxRounds < 0 {
		return errors.Newf("max_rounds must not be negative, got %d", o.MaxRounds)
	}
	return nil
}

// ParseOptions parses options from YAML on top of the defaults.
func ParseOptions(data []byte) (Options, error) {
	o := DefaultOptions()
	if err := yaml.UnmarshalStrict(data, &o); err != nil {
		return Options{}, errors.Wrap(err, "parsing optimizer options")
	}
	if err := o.Validate(); err != nil {
		return Options{}, err
	}
	return o, nil
}

// LoadOptionsFile reads options from the YAML file at path.
func LoadOptionsFile(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, errors.Wrap(err, "reading optimizer options")
	}
	return ParseOptions(data)
}
