// Package check runs the print-readiness passes over a parsed document.
//
// Five passes run in a fixed order, each over every page:
//
//  1. Orientation - pages wider than they are tall
//  2. Margin - media boxes outside the tolerance band around the paper size
//  3. FontSize - Tf operators selecting a size outside the allowed range
//  4. Resolution - images whose effective DPI is below the minimum
//  5. Transparency - transparency group XObjects
//
// Issues come back in (pass, page) order. A page whose geometry or content
// is damaged yields a Warning for the computation that was skipped, never
// an Issue and never an error.
//
//	result := check.New(check.WithProfile(profile)).Run(doc)
//	for _, issue := range result.Issues {
//	    fmt.Println(issue)
//	}
package check
