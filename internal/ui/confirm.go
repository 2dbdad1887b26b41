package ui

// ConfirmHeader is printed above the transaction summary shown before submission.
func ConfirmHeader() string {
	return StyleValue.Render("Confirm transaction details:") + " " + Meta("(skip with --skip-confirm)")
}

// SubmitPrompt is the question the operator answers; an empty answer means yes.
func SubmitPrompt() string {
	return StyleValue.Render("Submit?") + " (" + StyleValue.Render("Y") + "/n): "
}
