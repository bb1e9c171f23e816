/*
Copyright © 2026 the Climagg authors.
This file is part of Climagg.

Climagg is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Climagg is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Climagg.  If not, see <http://www.gnu.org/licenses/>.
*/

package climaggutil

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Batch holds the jobs listed in a batch file.
type Batch struct {
	Job []*Job
}

// jobSpec is a job as written in a batch file. Nil fields were left out
// of the file and take their value from the defaults.
type jobSpec struct {
	Mode, Input, Variable, Calendar, Season, Period *string
	SkipMissing                                     *bool
	Workers                                         *int

	Output, Plot string
	Element      int
}

// ReadBatch reads a list of TOML [[Job]] tables from r. Settings that a
// job leaves out are taken from defaults, except for Output, Plot and
// Element. A setting given in the job always wins, even if it is empty,
// false or zero.
func ReadBatch(r io.Reader, defaults *Job) (*Batch, error) {
	var file struct{ Job []jobSpec }
	md, err := toml.DecodeReader(r, &file)
	if err != nil {
		return nil, fmt.Errorf("climagg: problem reading batch file: %v", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		return nil, fmt.Errorf("climagg: unknown keys in batch file: %v", undecoded)
	}
	if len(file.Job) == 0 {
		return nil, fmt.Errorf("climagg: the batch file doesn't contain any [[Job]] tables")
	}
	if defaults == nil {
		defaults = new(Job)
	}
	b := &Batch{Job: make([]*Job, len(file.Job))}
	for i, spec := range file.Job {
		b.Job[i] = spec.withDefaults(defaults)
	}
	return b, nil
}

// withDefaults returns the job described by j, with every field that j
// leaves out taken from d.
func (j jobSpec) withDefaults(d *Job) *Job {
	str := func(v *string, def string) string {
		if v == nil {
			return def
		}
		return *v
	}
	o := &Job{
		Mode:        str(j.Mode, d.Mode),
		Input:       str(j.Input, d.Input),
		Variable:    str(j.Variable, d.Variable),
		Calendar:    str(j.Calendar, d.Calendar),
		Season:      str(j.Season, d.Season),
		Period:      str(j.Period, d.Period),
		SkipMissing: d.SkipMissing,
		Workers:     d.Workers,
		Output:      j.Output,
		Plot:        j.Plot,
		Element:     j.Element,
	}
	if j.SkipMissing != nil {
		o.SkipMissing = *j.SkipMissing
	}
	if j.Workers != nil {
		o.Workers = *j.Workers
	}
	return o
}

// runBatch runs the jobs in the batch file at path, stopping at the
// first failure.
func runBatch(cmd *cobra.Command, path string) error {
	f, err := os.Open(os.ExpandEnv(path))
	if err != nil {
		return fmt.Errorf("climagg: problem opening batch file: %v", err)
	}
	defer f.Close()
	b, err := ReadBatch(f, jobFromConfig(""))
	if err != nil {
		return err
	}
	return withLogger(cmd, func(log logrus.FieldLogger) error {
		for i, job := range b.Job {
			jl := log.WithField("job", i+1)
			jl.Infof("starting job %d of %d", i+1, len(b.Job))
			if _, err := Run(job, jl, cmd.OutOrStdout()); err != nil {
				return fmt.Errorf("climagg: batch job %d: %v", i+1, err)
			}
		}
		return nil
	})
}
