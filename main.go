// LUPER: Tumor Response Reconciliation Library
// Copyright (c) 2023 Medsir Scientific.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/MedsirScientific/LUPER/blob/master/LICENSE.txt>.

package main

import (
	"bytes"
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"luper/app"
	"luper/plot"
	"luper/timeline"
	"luper/utils"
)

/*
Luper reconciles the tumor assessment tables of a clinical study into a canonical per-patient, per-visit response
timeline.

Usage:
	luper dataPath outputPath [flags]

Example:
	luper ./data/luper/ ./out/luper/ --name luper --sites 0102,0103 --plot --endpoint --nullRate 0.30

The tool reads seven CSV tables from dataPath (cohort, baseline measurable and non-measurable lesions, post-baseline
measurable and non-measurable lesions, new lesions, overall responses), merges them into one table keyed by patient
and visit, computes the tumor burden metrics (sum of lesion diameters, change and percent change from baseline and
from nadir), normalizes the overall response assessments onto the canonical codes, and writes the result to
outputPath.

The flags are:

--name string
	Sets the name of the run. This name is used to generate names for output files.
--cohortFile file
	The name of the cohort table inside dataPath.
--baselineTargetFile file
	The name of the baseline measurable-lesion table inside dataPath.
--baselineNonTargetFile file
	The name of the baseline non-measurable-lesion table inside dataPath.
--targetFile file
	The name of the post-baseline measurable-lesion table inside dataPath.
--nonTargetFile file
	The name of the post-baseline non-measurable-lesion table inside dataPath.
--newLesionFile file
	The name of the new-lesion table inside dataPath.
--responseFile file
	The name of the overall-response table inside dataPath.
--sites 0102,0103
	A list of site codes. If passed, the output table is restricted to the patients enrolled at these sites.
--plot
	If this flag is passed, the swimmer, spider, and waterfall views of the timeline are plotted to outputPath.
--endpoint
	If this flag is passed, the objective response rate is tested against the null response rate with an exact
	one-sided binomial test.
--nullRate nr
	The response rate under the null hypothesis of the endpoint test. E.g. 0.30.
*/

const (
	programVersion = 0.1
	programName    = "luper"
)

func programMessage() string {
	return fmt.Sprint(programName, " version ", programVersion, " compiled with ", runtime.Version())
}

const luperHelp = "\nluper parameters:\n" +
	"luper dataPath outputPath \n" +
	"[--name string]\n" +
	"[--cohortFile file]\n" +
	"[--baselineTargetFile file]\n" +
	"[--baselineNonTargetFile file]\n" +
	"[--targetFile file]\n" +
	"[--nonTargetFile file]\n" +
	"[--newLesionFile file]\n" +
	"[--responseFile file]\n" +
	"[--sites 0102,0103]\n" +
	"[--plot]\n" +
	"[--endpoint]\n" +
	"[--nullRate nr]\n" +
	"[--nrOfThreads nr]\n"

func parseFlags(flags flag.FlagSet, requiredArgs int, help string) {
	if len(os.Args) < requiredArgs {
		fmt.Fprintln(os.Stderr, "Incorrect number of parameters.")
		fmt.Fprint(os.Stderr, help)
		os.Exit(1)
	}
	flags.SetOutput(ioutil.Discard)
	if err := flags.Parse(os.Args[requiredArgs:]); err != nil {
		x := 0
		if err != flag.ErrHelp {
			fmt.Fprint(os.Stderr, err)
		}
		fmt.Fprint(os.Stderr, help)
		os.Exit(x)
	}
	if flags.NArg() > 0 {
		fmt.Fprint(os.Stderr, "Cannot parse remaining parameters:", flags.Args())
		fmt.Fprint(os.Stderr, help)
		os.Exit(1)
	}
}

func getFileName(s, help string) string {
	switch s {
	case "-h", "--h", "-help", "--help":
		fmt.Fprint(os.Stderr, help)
		os.Exit(1)
	}
	return s
}

func main() {
	var (
		// required parameters
		dataPath   string //The path with the study CSV tables.
		outputPath string //The path where output files are written.
		// optional flags
		name                   string
		cohortFile             string
		baselineTargetFile     string
		baselineNonTargetFile  string
		targetFile             string
		nonTargetFile          string
		newLesionFile          string
		responseFile           string
		sites                  string
		plotTimeline           bool
		endpoint               bool
		nullRate               float64
		nrOfThreads            int
	)
	var flags flag.FlagSet
	// options for the luper command
	flags.StringVar(&name, "name", "luper", "The name of the run. This is used to generate the "+
		"names of the output files.")
	flags.StringVar(&cohortFile, "cohortFile", "cohort.csv", "The name of the cohort table.")
	flags.StringVar(&baselineTargetFile, "baselineTargetFile", "baseline_target.csv", "The name of "+
		"the baseline measurable-lesion table.")
	flags.StringVar(&baselineNonTargetFile, "baselineNonTargetFile", "baseline_nontarget.csv", "The "+
		"name of the baseline non-measurable-lesion table.")
	flags.StringVar(&targetFile, "targetFile", "target.csv", "The name of the post-baseline "+
		"measurable-lesion table.")
	flags.StringVar(&nonTargetFile, "nonTargetFile", "nontarget.csv", "The name of the post-baseline "+
		"non-measurable-lesion table.")
	flags.StringVar(&newLesionFile, "newLesionFile", "new_lesions.csv", "The name of the new-lesion "+
		"table.")
	flags.StringVar(&responseFile, "responseFile", "response.csv", "The name of the overall-response "+
		"table.")
	flags.StringVar(&sites, "sites", "", "A list of site codes to restrict the output table to.")
	flags.BoolVar(&plotTimeline, "plot", false, "Plot the swimmer, spider, and waterfall views of the "+
		"timeline.")
	flags.BoolVar(&endpoint, "endpoint", false, "Test the objective response rate against the null "+
		"response rate.")
	flags.Float64Var(&nullRate, "nullRate", 0.3, "The response rate under the null hypothesis of the "+
		"endpoint test.")
	flags.IntVar(&nrOfThreads, "nrOfThreads", 0, "The number of threads luper uses.")
	// parse optional arguments
	parseFlags(flags, 3, luperHelp)
	// parse required arguments
	dataPath = getFileName(os.Args[1], luperHelp)
	outputPath, _ = filepath.Abs(getFileName(os.Args[2], luperHelp))
	outputPath = outputPath + string(filepath.Separator)
	fmt.Println("Output path: ", outputPath)
	// create output directory
	err := os.MkdirAll(filepath.Dir(outputPath), 0700)
	if err != nil {
		panic(err)
	}
	// build an output command line
	var command bytes.Buffer
	fmt.Fprint(&command, os.Args[0], " ", dataPath, " ", outputPath)
	fmt.Fprint(&command, " --name ", name)
	fmt.Fprint(&command, " --cohortFile ", cohortFile)
	fmt.Fprint(&command, " --baselineTargetFile ", baselineTargetFile)
	fmt.Fprint(&command, " --baselineNonTargetFile ", baselineNonTargetFile)
	fmt.Fprint(&command, " --targetFile ", targetFile)
	fmt.Fprint(&command, " --nonTargetFile ", nonTargetFile)
	fmt.Fprint(&command, " --newLesionFile ", newLesionFile)
	fmt.Fprint(&command, " --responseFile ", responseFile)
	if sites != "" {
		fmt.Fprint(&command, " --sites ", sites)
	}
	if plotTimeline {
		fmt.Fprint(&command, " --plot")
	}
	if endpoint {
		fmt.Fprint(&command, " --endpoint")
		fmt.Fprint(&command, " --nullRate ", nullRate)
	}
	if nrOfThreads > 0 {
		runtime.GOMAXPROCS(nrOfThreads)
		fmt.Fprint(&command, " --nrOfThreads ", nrOfThreads)
	}
	// start execution
	log.Info(programMessage())
	log.Info("Executing command:\n", command.String())
	//1. Parse the study tables
	cohort := app.ParseCohort(filepath.Join(dataPath, cohortFile))
	baselineTargets := app.ParseBaselineTargetLesions(filepath.Join(dataPath, baselineTargetFile))
	baselineNonTargets := app.ParseBaselineNonTargetLesions(filepath.Join(dataPath, baselineNonTargetFile))
	targets := app.ParseTargetLesions(filepath.Join(dataPath, targetFile))
	nonTargets := app.ParseNonTargetLesions(filepath.Join(dataPath, nonTargetFile))
	newLesions := app.ParseNewLesions(filepath.Join(dataPath, newLesionFile))
	responses := app.ParseResponseAssessments(filepath.Join(dataPath, responseFile))
	//2. Reconcile the record sets per visit
	baseline := timeline.ReconcileBaseline(baselineTargets, baselineNonTargets, cohort)
	lesions := timeline.ReconcileLesions(targets, nonTargets)
	detections := timeline.DetectNewLesions(newLesions)
	//3. Assemble the canonical timeline
	records := timeline.AssembleTimeline(baseline, lesions, detections, responses, cohort, timeline.KnownExclusions)
	if sites != "" {
		records = timeline.ApplyRecordFilters([]timeline.RecordFilter{timeline.SiteFilter(strings.Split(sites, ","))},
			records)
	}
	//4. Write the timeline to file
	timeline.PrintTimelineToFile(records, filepath.Join(outputPath, fmt.Sprintf("%s-timeline.csv", name)))
	fmt.Println("Reconciled timeline: ")
	for i := 0; i < utils.MinInt(len(records), 100); i++ {
		timeline.PrintRecord(records[i])
	}
	//5. Plot the timeline
	if plotTimeline {
		plot.PlotTimeline(records, name, outputPath)
	}
	//6. Test the primary endpoint
	if endpoint {
		responders, evaluable := timeline.ObjectiveResponders(records)
		p := utils.OneSidedBinomialTest(responders, evaluable, nullRate)
		log.Infof("Objective response rate: %d/%d (%.1f%%), one-sided exact binomial p = %s against null rate %.2f",
			responders, evaluable, 100*float64(responders)/float64(evaluable), strconv.FormatFloat(p, 'g', 4, 64),
			nullRate)
	}
}
