package entity

// Attachment is a file linked to a procurement record. It is either already
// stored (Path set) or newly selected and held in memory (Data set).
type Attachment struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type,omitempty"`
	Path        string `json:"path,omitempty"`
	Data        []byte `json:"data,omitempty"`
}

// Pending reports whether the attachment content still has to be uploaded.
func (a Attachment) Pending() bool {
	return len(a.Data) > 0
}

// Clone returns a copy that does not share the content buffer.
func (a Attachment) Clone() Attachment {
	c := a
	if a.Data != nil {
		c.Data = append([]byte(nil), a.Data...)
	}
	return c
}
