package domain

// Message is a rendered notification ready for delivery.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// MessageMeta carries the context templates render with.
type MessageMeta struct {
	Title     string
	Year      int
	Organizer Organizer
}

// NotificationReport summarises a notification run.
type NotificationReport struct {
	// Sent lists the givers whose message was delivered.
	Sent []string `json:"sent,omitempty"`

	// Skipped lists givers without an email address.
	Skipped []string `json:"skipped,omitempty"`

	// Failed maps a giver name to its delivery error message.
	// Keyed by name because a couple may share one address.
	Failed map[string]string `json:"failed,omitempty"`

	// MasterListSent is true when the organizer received the master list.
	MasterListSent bool `json:"master_list_sent"`

	// MasterListError is the delivery error for the master list, if any.
	MasterListError string `json:"master_list_error,omitempty"`
}

// OK reports whether nothing failed.
func (r *NotificationReport) OK() bool {
	return r != nil && len(r.Failed) == 0 && r.MasterListError == ""
}
