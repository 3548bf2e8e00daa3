package uploader

import "fmt"

// Element expressions used by the upload flow.
const (
	fileInputExpr = `//input[@type='file']`
	captionExpr   = `//div[@contenteditable='true']`
)

// postButtonSelectors builds the ordered XPath candidates for the publish
// button. Upload pages ship several DOM shapes for the same control and swap
// the label by locale, so every label gets the full strategy list, most
// specific first.
func postButtonSelectors(labels []string) []string {
	selectors := make([]string, 0, len(labels)*4)
	for _, label := range labels {
		selectors = append(selectors,
			fmt.Sprintf(`//button[div[text()='%s']]`, label),
			fmt.Sprintf(`//button[text()='%s']`, label),
			fmt.Sprintf(`//button[contains(., '%s')]`, label),
			fmt.Sprintf(`//div[text()='%s']`, label),
		)
	}
	return selectors
}
