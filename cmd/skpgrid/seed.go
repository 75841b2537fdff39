package main

import "github.com/mumtazka/skpgrid/document"

func seedDocument() *document.Document {
	doc := document.New("Performance goals")

	goals := doc.AddSection("goals", "Main performance goals",
		"Superior's goal", "Performance goal", "Indicator", "Target")
	goals.Section.SetRowNumber(0, "1")
	goals.Section.SetCell(0, 1, "<b>Improve</b> service turnaround")
	goals.Section.AddSubRow(0)
	goals.Section.SetCell(1, 2, "Requests closed within <i>3 days</i>")
	goals.Section.SetCell(1, 3, "90%")

	acts := doc.AddSection("activities", "Supporting activities",
		"Activity", "Output", "Target")
	acts.Section.SetRowNumber(0, "1")

	doc.AddSection("behaviour", "Work behaviour notes", "Aspect", "Expectation")
	return doc
}
