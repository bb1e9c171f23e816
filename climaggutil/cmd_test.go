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
	"bytes"
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/ctessum/cdf"
	"github.com/spatialmodel/climagg"
)

// writeInput writes three years (2000-2002) of monthly data in the standard
// calendar where each value is its month number, except December, which is
// 12 plus the year offset from 2000.
func writeInput(t *testing.T, dir string) string {
	const nt = 36
	path := filepath.Join(dir, "pr.nc")
	h := cdf.NewHeader([]string{"time"}, []int{nt})
	h.AddVariable("time", []string{"time"}, []float64{0})
	h.AddAttribute("time", "units", "days since 2000-01-01")
	h.AddAttribute("time", "calendar", "standard")
	h.AddVariable("pr", []string{"time"}, []float64{0})
	h.AddAttribute("pr", "units", "mm/day")
	h.Define()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	ff, err := cdf.Create(f, h)
	if err != nil {
		t.Fatal(err)
	}
	times := make([]float64, nt)
	data := make([]float64, nt)
	var day float64
	for i := 0; i < nt; i++ {
		year, month := 2000+i/12, i%12+1
		d, _ := climagg.DaysInMonth(climagg.Standard, year, month)
		times[i] = day + float64(d)/2
		day += float64(d)
		data[i] = float64(month)
		if month == 12 {
			data[i] += float64(year - 2000)
		}
	}
	if _, err := ff.Writer("time", []int{0}, []int{nt}).Write(times); err != nil {
		t.Fatal(err)
	}
	if _, err := ff.Writer("pr", []int{0}, []int{nt}).Write(data); err != nil {
		t.Fatal(err)
	}
	return path
}

// setJob resets the job options in Cfg and then applies the given values.
func setJob(vals map[string]interface{}) {
	for k, v := range map[string]interface{}{
		"Input":       "",
		"Variable":    "",
		"Calendar":    "",
		"Season":      "annual",
		"SkipMissing": false,
		"Period":      "",
		"Output":      "",
		"Plot":        "",
		"Element":     0,
		"Workers":     0,
		"LogFile":     "",
		"config":      "",
	} {
		Cfg.Set(k, v)
	}
	for k, v := range vals {
		Cfg.Set(k, v)
	}
}

func execute(t *testing.T, args ...string) string {
	var buf bytes.Buffer
	Root.SetOutput(&buf)
	Root.SetArgs(args)
	defer Root.SetOutput(nil)
	if err := Root.Execute(); err != nil {
		t.Fatalf("%v: %v\n%s", args, err, buf.String())
	}
	return buf.String()
}

// summaryValues parses the "key\tvalue" lines of a scalar summary.
func summaryValues(t *testing.T, out string) map[int]float64 {
	v := make(map[int]float64)
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		f := strings.Split(line, "\t")
		if len(f) != 2 || strings.HasPrefix(line, "#") {
			continue
		}
		key, err := strconv.Atoi(f[0])
		if err != nil {
			continue
		}
		x, err := strconv.ParseFloat(f[1], 64)
		if err != nil {
			t.Fatalf("line %q: %v", line, err)
		}
		v[key] = x
	}
	return v
}

func TestVersion(t *testing.T) {
	setJob(nil)
	out := execute(t, "version")
	if want := "Climagg v" + climagg.Version; !strings.Contains(out, want) {
		t.Errorf("output %q doesn't contain %q", out, want)
	}
}

func TestCalendars(t *testing.T) {
	setJob(nil)
	out := execute(t, "calendars")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != len(climagg.Calendars)+1 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	for _, want := range []string{
		"360_day               30  30  30  30  30  30  30  30  30  30  30  30   360   360",
		"standard              31  28  31  30  31  30  31  31  30  31  30  31   365   366",
		"all_leap              31  29  31  30  31  30  31  31  30  31  30  31   366   366",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output doesn't contain %q:\n%s", want, out)
		}
	}
}

func TestClim(t *testing.T) {
	dir := t.TempDir()
	setJob(map[string]interface{}{
		"Input":    writeInput(t, dir),
		"Variable": "pr",
		"Season":   "JJA",
		"Output":   filepath.Join(dir, "clim.nc"),
	})
	v := summaryValues(t, execute(t, "clim"))
	// June, July and August are 30, 31 and 31 days long every year.
	if want := (6*30 + 7*31 + 8*31) / 92.; math.Abs(v[0]-want) > 1e-12 {
		t.Errorf("climatology %g; want %g", v[0], want)
	}
	if _, err := os.Stat(filepath.Join(dir, "clim.nc")); err != nil {
		t.Error(err)
	}
}

func TestYearMean(t *testing.T) {
	dir := t.TempDir()
	setJob(map[string]interface{}{
		"Input":    writeInput(t, dir),
		"Variable": "pr",
		"Season":   12,
		"Plot":     filepath.Join(dir, "dec.png"),
	})
	out := execute(t, "yearmean")
	for _, want := range []string{"2000\t12\n", "2001\t13\n", "2002\t14\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q doesn't contain %q", out, want)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "dec.png")); err != nil {
		t.Error(err)
	}
}

func TestYearMeanPeriod(t *testing.T) {
	dir := t.TempDir()
	setJob(map[string]interface{}{
		"Input":    writeInput(t, dir),
		"Variable": "pr",
		"Season":   "12",
		"Period":   "2001-2002",
	})
	out := execute(t, "yearmean")
	if strings.Contains(out, "2000\t") {
		t.Errorf("output %q includes a year outside of the period", out)
	}
	if !strings.Contains(out, "2001\t13\n") || !strings.Contains(out, "2002\t14\n") {
		t.Errorf("output %q", out)
	}
}

func TestCycle(t *testing.T) {
	dir := t.TempDir()
	setJob(map[string]interface{}{
		"Input":    writeInput(t, dir),
		"Variable": "pr",
		"Calendar": "360_day",
		"Output":   filepath.Join(dir, "cycle.nc"),
		"Plot":     filepath.Join(dir, "cycle.svg"),
		"LogFile":  filepath.Join(dir, "cycle.log"),
	})
	out := execute(t, "cycle")
	if want := "# pr annual per-calendar-month (360_day, 2000-2002)"; !strings.Contains(out, want) {
		t.Errorf("output %q doesn't contain %q", out, want)
	}
	v := summaryValues(t, out)
	if len(v) != 12 {
		t.Fatalf("got %d months: %v", len(v), v)
	}
	// Equal weights under 360_day, so December is the mean of 12, 13 and 14.
	for m := 1; m <= 12; m++ {
		want := float64(m)
		if m == 12 {
			want = 13
		}
		if math.Abs(v[m]-want) > 1e-12 {
			t.Errorf("month %d: %g; want %g", m, v[m], want)
		}
	}
	for _, f := range []string{"cycle.nc", "cycle.svg"} {
		if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
			t.Error(err)
		}
	}
	log, err := os.ReadFile(filepath.Join(dir, "cycle.log"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(log), "using calendar 360_day instead of standard") {
		t.Errorf("log file doesn't mention the calendar override:\n%s", log)
	}
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)
	for _, test := range []struct {
		name string
		vals map[string]interface{}
		args []string
	}{
		{name: "no input", vals: map[string]interface{}{"Variable": "pr"}, args: []string{"clim"}},
		{name: "no variable", vals: map[string]interface{}{"Input": input}, args: []string{"clim"}},
		{name: "missing variable", vals: map[string]interface{}{"Input": input, "Variable": "tas"}, args: []string{"clim"}},
		{name: "bad season", vals: map[string]interface{}{"Input": input, "Variable": "pr", "Season": "XYZ"}, args: []string{"clim"}},
		{name: "bad calendar", vals: map[string]interface{}{"Input": input, "Variable": "pr", "Calendar": "julian"}, args: []string{"clim"}},
		{name: "bad period", vals: map[string]interface{}{"Input": input, "Variable": "pr", "Period": "1990-2001"}, args: []string{"clim"}},
		{name: "plot of climatology", vals: map[string]interface{}{"Input": input, "Variable": "pr", "Plot": filepath.Join(dir, "x.png")}, args: []string{"clim"}},
		{name: "bad plot type", vals: map[string]interface{}{"Input": input, "Variable": "pr", "Plot": filepath.Join(dir, "x.txt")}, args: []string{"cycle"}},
		{name: "bad output dir", vals: map[string]interface{}{"Input": input, "Variable": "pr", "Output": filepath.Join(dir, "nodir", "x.nc")}, args: []string{"cycle"}},
	} {
		t.Run(test.name, func(t *testing.T) {
			setJob(test.vals)
			var buf bytes.Buffer
			Root.SetOutput(&buf)
			defer Root.SetOutput(nil)
			Root.SetArgs(test.args)
			if err := Root.Execute(); err == nil {
				t.Errorf("expected an error")
			}
		})
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "climagg.toml")
	if err := os.WriteFile(cfgFile, []byte(`LogLevel = "warning"`+"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	setJob(map[string]interface{}{"config": cfgFile})
	defer Cfg.Set("config", "")
	if err := Root.PersistentPreRunE(nil, nil); err != nil {
		t.Fatal(err)
	}
	if lvl := Cfg.GetString("LogLevel"); lvl != "warning" {
		t.Errorf("LogLevel %q; want warning", lvl)
	}

	Cfg.Set("config", filepath.Join(dir, "missing.toml"))
	if err := Root.PersistentPreRunE(nil, nil); err == nil {
		t.Error("expected an error for a missing configuration file")
	}
}

// settingsFingerprint runs job and returns the settings_fingerprint
// attribute of its output file.
func settingsFingerprint(t *testing.T, job *Job) string {
	log, _, err := newLogger(ioutil.Discard, "error", "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Run(job, log, ioutil.Discard); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(job.Output)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	ff, err := cdf.Open(f)
	if err != nil {
		t.Fatal(err)
	}
	fp, _ := ff.Header.GetAttribute(job.Variable, "settings_fingerprint").(string)
	if fp == "" {
		t.Fatalf("%s has no settings_fingerprint", job.Output)
	}
	return fp
}

func TestSettingsFingerprint(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)
	job := func(season, calendar, out string) *Job {
		return &Job{Mode: ModeClimatology, Input: input, Variable: "pr", Season: season,
			Calendar: calendar, Output: filepath.Join(dir, out)}
	}
	upper := settingsFingerprint(t, job("DJF", "", "upper.nc"))
	lower := settingsFingerprint(t, job("djf", "standard", "lower.nc"))
	if upper != lower {
		t.Errorf("equivalent settings have fingerprints %s and %s", upper, lower)
	}
	if jja := settingsFingerprint(t, job("JJA", "", "jja.nc")); jja == upper {
		t.Error("different seasons have the same fingerprint")
	}
	if d360 := settingsFingerprint(t, job("DJF", "360_day", "d360.nc")); d360 == upper {
		t.Error("different calendars have the same fingerprint")
	}
}
