package mailru

import (
	"encoding/json"
	"strings"
)

// DefaultFolderID is Mail.ru's well-known inbox folder.
const DefaultFolderID = "5"

// Message is the normalized unread-message shape cached per account.
type Message struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	From    string `json:"from"`
	Link    string `json:"link"`
	Fid     string `json:"fid"`
}

// flexString decodes a JSON value that the checker API serves
// interchangeably as a string or a number.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*f = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

func (f flexString) String() string { return string(f) }

// FromField is one correspondent entry. The API has served it as a bare
// string and as an object with name/display_name and email/address keys,
// depending on version.
type FromField struct {
	Raw         string
	Name        string
	DisplayName string
	Email       string
	Address     string
}

func (f *FromField) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*f = FromField{}
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FromField{Raw: s}
		return nil
	}
	var obj struct {
		Name        string `json:"name"`
		DisplayName string `json:"display_name"`
		Email       string `json:"email"`
		Address     string `json:"address"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*f = FromField{
		Name:        obj.Name,
		DisplayName: obj.DisplayName,
		Email:       obj.Email,
		Address:     obj.Address,
	}
	return nil
}

// IsZero reports whether no correspondent data was present at all.
func (f FromField) IsZero() bool {
	return f.Raw == "" && f.Name == "" && f.DisplayName == "" && f.Email == "" && f.Address == ""
}

// rawMessage mirrors the several field spellings the checker API has used
// across versions. Id fields may carry a compound "folder:id" token.
type rawMessage struct {
	ID        flexString `json:"id"`
	Mid       flexString `json:"mid"`
	MessageID flexString `json:"message_id"`
	Msgid     flexString `json:"msgid"`

	Subject string `json:"subject"`
	Subj    string `json:"subj"`

	Fid      flexString `json:"fid"`
	FolderID flexString `json:"folder_id"`
	Folder   flexString `json:"folder"`

	From   *FromField `json:"from"`
	Sender *FromField `json:"sender"`

	Correspondents struct {
		From []FromField `json:"from"`
	} `json:"correspondents"`

	Link string `json:"link"`
	URL  string `json:"url"`
}

// messageID returns the first id variant present.
func (m *rawMessage) messageID() string {
	for _, id := range []flexString{m.ID, m.Mid, m.MessageID, m.Msgid} {
		if id != "" {
			return id.String()
		}
	}
	return ""
}

// folderID returns the explicit folder id variant, may be empty.
func (m *rawMessage) folderID() string {
	for _, fid := range []flexString{m.Fid, m.FolderID, m.Folder} {
		if fid != "" {
			return fid.String()
		}
	}
	return ""
}

// fromField selects the correspondent in source priority order:
// correspondents.from[0], then from, then sender.
func (m *rawMessage) fromField() FromField {
	if len(m.Correspondents.From) > 0 && !m.Correspondents.From[0].IsZero() {
		return m.Correspondents.From[0]
	}
	if m.From != nil && !m.From.IsZero() {
		return *m.From
	}
	if m.Sender != nil && !m.Sender.IsZero() {
		return *m.Sender
	}
	return FromField{}
}

// directLink returns the provider-supplied link, if any.
func (m *rawMessage) directLink() string {
	if m.Link != "" {
		return m.Link
	}
	return m.URL
}

// subject returns the subject variant present, may be empty.
func (m *rawMessage) subject() string {
	if m.Subject != "" {
		return m.Subject
	}
	return m.Subj
}
