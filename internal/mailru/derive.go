package mailru

import (
	"fmt"
	"net/url"
	"strings"
)

// Pure derivation helpers shared by the poller and the popup renderer.
// The popup re-applies them defensively to cached messages, so each one
// must be total and idempotent over its own output.

// FormatFrom flattens a correspondent to a display string: "Name <email>",
// or whichever single part is present, or "". A FromField carrying only a
// raw string (an already-normalized value) is returned unchanged.
func FormatFrom(f FromField) string {
	if f.Raw != "" {
		return f.Raw
	}
	name := f.Name
	if name == "" {
		name = f.DisplayName
	}
	mail := f.Email
	if mail == "" {
		mail = f.Address
	}
	if name != "" && mail != "" {
		return fmt.Sprintf("%s <%s>", name, mail)
	}
	if mail != "" {
		return mail
	}
	return name
}

// SplitCompoundID splits a "folder:id" token into its folder prefix and
// local id. A plain id comes back with an empty folder.
func SplitCompoundID(id string) (folder, local string) {
	if i := strings.IndexByte(id, ':'); i >= 0 {
		return id[:i], id[i+1:]
	}
	return "", id
}

// BuildLink derives a directly navigable URL for a message. A provider
// supplied link wins; a compound "folder:id" token maps to
// <base>/<folder>/<local>/, where the explicit fid overrides the
// compound's folder prefix; a bare id maps to <base>/message/<id>/;
// with no id at all the generic inbox is used. Path parts are
// percent-encoded.
func BuildLink(base, fid, id, direct string) string {
	if direct != "" {
		return direct
	}
	base = strings.TrimRight(base, "/")
	if strings.Contains(id, ":") {
		_, local := SplitCompoundID(id)
		return fmt.Sprintf("%s/%s/%s/", base, url.PathEscape(FolderOf(fid, id)), url.PathEscape(local))
	}
	if id != "" {
		return fmt.Sprintf("%s/message/%s/", base, url.PathEscape(id))
	}
	return base + "/messages/inbox/"
}

// FolderOf resolves the folder id for a message: the explicit fid when
// present, else the compound prefix of the id, else the inbox default.
func FolderOf(fid, id string) string {
	if fid != "" {
		return fid
	}
	if folder, _ := SplitCompoundID(id); folder != "" {
		return folder
	}
	return DefaultFolderID
}

// ComposeID builds the compound identifier used in mark-read payloads.
// An id already carrying a colon is used verbatim; otherwise the folder
// is joined in front when present. Both parts are trimmed first.
func ComposeID(fid, id string) string {
	fid = strings.TrimSpace(fid)
	id = strings.TrimSpace(id)
	if id == "" {
		return ""
	}
	if strings.Contains(id, ":") {
		return id
	}
	if fid != "" {
		return fid + ":" + id
	}
	return id
}

// EnsureLink returns the cached link when present, re-deriving it
// otherwise. Used at render time against stale cache shapes.
func EnsureLink(base string, m Message) string {
	if m.Link != "" {
		return m.Link
	}
	return BuildLink(base, m.Fid, m.ID, "")
}
