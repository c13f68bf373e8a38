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

// scanopt plans scans of external tables and shows the plan the optimizer
// picks:
//
//	scanopt explain --catalog tables.yaml --table orders --filter "id < 1000"
//	scanopt tables --catalog tables.yaml
//	scanopt metrics --catalog tables.yaml --table orders --backend-id 1
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// Cobra has already printed the error message.
		os.Exit(1)
	}
}
