// Package main provides the entry point for the CitrusCounter CLI.
//
// CitrusCounter estimates citrus yield for a farm from four photographs of
// its trees. Images are submitted to a remote counting service and the
// result is combined with the farm's tree count into a yield report.
//
// Usage:
//
//	citruscounter login --phone 03001234567
//	citruscounter count img1.jpg img2.jpg img3.jpg img4.jpg
//
// See --help for all available options.
package main

// main is the entry point for CitrusCounter.
func main() {
	Execute()
}
