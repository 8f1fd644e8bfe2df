// Package fixture implements the golden-fixture procedures for
// nearest-neighbor index tests: building persisted indexes from a CSV point
// set, retrieving neighbor reports for a fixed query list, and verifying an
// index against an existing golden report.
package fixture

import (
	"fmt"

	"github.com/annlab/annfix/distance"
)

const (
	// DefaultDimension is the point dimensionality of the standard fixture set.
	DefaultDimension = 8

	// DefaultK is the number of neighbors per query in golden reports.
	DefaultK = 10

	// PointsFileName is the conventional input file name.
	PointsFileName = "points.csv"
)

// DefaultQueryIDs is the fixed query list used to produce golden reports.
// It is invariant across runs so that reports are reproducible.
var DefaultQueryIDs = []uint32{1443, 1240, 818, 1725, 1290, 2031, 1117, 1211, 1902, 603}

// IndexFileName returns the conventional index file name for a metric,
// e.g. "points.angular.annoy".
func IndexFileName(m distance.Metric) string {
	return fmt.Sprintf("points.%s.annoy", m)
}

// ReportFileName returns the conventional report file name for a metric,
// e.g. "points.angular.ann.txt".
func ReportFileName(m distance.Metric) string {
	return fmt.Sprintf("points.%s.ann.txt", m)
}
