/*
Package main is the rigscore command line.

rigscore loads a laptop catalog with its benchmark tables, price data and
sale calendar, scores every entity, and prints JSON judgments.

Usage:

	rigscore [command]

Available Commands:

	report   Full evaluation of one or more entities
	analyze  Strengths, weaknesses, tags and scenario verdicts
	signal   Buy-now or wait recommendation
	compare  Percentile and peer-group context per dimension
	top      Best entities in one dimension
	serve    Keep a snapshot loaded and expose health, stats and metrics

Configuration is read from defaults, the YAML file named by RIGSCORE_CONFIG
and RIGSCORE_* environment variables; flags override all three.
*/
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
