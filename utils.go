// Copyright 2024 The mosaic-generator Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package mosaic

import (
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
)

// ProgressFunc is a function that is used to inform a caller about the progress
// of a called function.
// For example if we process thousands of images we might wish to know
// how far the call is and give feedback to the user.
// The called method calls the process function after each iteration.
type ProgressFunc func(num int)

// ProgressIgnore is a ProgressFunc that does nothing.
func ProgressIgnore(num int) {}

func progressPercent(num, max int) float64 {
	percent := (float64(num) / float64(max)) * 100.0
	if percent > 100.0 {
		percent = 100.0
	}
	return percent
}

func skipProgress(num, max, step int) bool {
	return step == 0 || max == 0 || !(step < 0 || num%step == 0 || num == max)
}

// LoggerProgressFunc is a parameterized ProgressFunc that logs to log.
// The output describes the progress (how many of how many objects processed).
// Log messages may have an addition prefix. max is the total number of elements
// to process and step describes how often to print to the log (for example
// step = 100 every 100 items). The last item is always reported.
func LoggerProgressFunc(prefix string, max, step int) ProgressFunc {
	if prefix == "" {
		prefix = "Progress"
	}
	return func(num int) {
		if skipProgress(num, max, step) {
			return
		}
		log.Infof("%s: %d of %d (%.1f%%)", prefix, num, max, progressPercent(num, max))
	}
}

// StdProgressFunc is a parameterized ProgressFunc that writes to w.
// Parameters are the same as for LoggerProgressFunc.
func StdProgressFunc(w io.Writer, prefix string, max, step int) ProgressFunc {
	if prefix == "" {
		prefix = "Progress"
	}
	return func(num int) {
		if skipProgress(num, max, step) {
			return
		}
		fmt.Fprintf(w, "%s: %d of %d (%.1f%%)\n", prefix, num, max, progressPercent(num, max))
	}
}
