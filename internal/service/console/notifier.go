package console

// Fixed flash texts.
const (
	MessageSuccess     = "Success"
	MessageDeleted     = "Inventory has been Deleted!"
	MessageServerError = "Server error!"
	MessageExportOff   = "Export is not configured"
	messageExportedFmt = "Exported %d rows"
)

// Notifier is a single-slot flash area; the last Show wins.
type Notifier struct {
	message string
}

// Show replaces the displayed message.
func (n *Notifier) Show(message string) {
	n.message = message
}

// Clear empties the slot.
func (n *Notifier) Clear() {
	n.message = ""
}

// Message returns the displayed text.
func (n *Notifier) Message() string {
	return n.message
}
