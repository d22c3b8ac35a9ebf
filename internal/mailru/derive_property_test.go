package mailru

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genToken generates identifier-like strings without colons, the shape of
// real folder ids and local message ids.
func genToken() gopter.Gen {
	return gen.Identifier()
}

// TestProperty_FormatFrom_Idempotent tests that re-formatting an already
// formatted correspondent never changes it, since the popup re-applies the
// formatter to cached values.
func TestProperty_FormatFrom_Idempotent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("formatting_is_idempotent", prop.ForAll(
		func(name, displayName, email, address string) bool {
			first := FormatFrom(FromField{
				Name:        name,
				DisplayName: displayName,
				Email:       email,
				Address:     address,
			})
			second := FormatFrom(FromField{Raw: first})
			return first == second
		},
		gen.AlphaString(),
		gen.AlphaString(),
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.Property("name_and_email_join_as_angle_form", prop.ForAll(
		func(name, email string) bool {
			got := FormatFrom(FromField{Name: name, Email: email})
			return got == name+" <"+email+">"
		},
		genToken(),
		genToken(),
	))

	properties.TestingRun(t)
}

// TestProperty_BuildLink_Total tests that link derivation always yields a
// usable URL, for every combination of present and missing fields.
func TestProperty_BuildLink_Total(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	base := "https://e.mail.ru"

	properties.Property("link_is_never_empty_and_deterministic", prop.ForAll(
		func(fid, id string) bool {
			first := BuildLink(base, fid, id, "")
			second := BuildLink(base, fid, id, "")
			return first != "" && first == second && strings.HasPrefix(first, base)
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.Property("direct_link_wins", prop.ForAll(
		func(fid, id, direct string) bool {
			return BuildLink(base, fid, id, direct) == direct
		},
		gen.AlphaString(),
		gen.AlphaString(),
		genToken(),
	))

	properties.Property("compound_id_maps_to_folder_path", prop.ForAll(
		func(folder, local string) bool {
			got := BuildLink(base, "", folder+":"+local, "")
			return got == base+"/"+folder+"/"+local+"/"
		},
		genToken(),
		genToken(),
	))

	properties.Property("explicit_fid_overrides_compound_prefix", prop.ForAll(
		func(fid, folder, local string) bool {
			got := BuildLink(base, fid, folder+":"+local, "")
			return got == base+"/"+fid+"/"+local+"/"
		},
		genToken(),
		genToken(),
		genToken(),
	))

	properties.Property("bare_id_maps_to_message_path", prop.ForAll(
		func(id string) bool {
			got := BuildLink(base, "", id, "")
			return got == base+"/message/"+id+"/"
		},
		genToken(),
	))

	properties.TestingRun(t)
}

// TestProperty_ComposeID tests the compound identifier used by read-state
// payloads.
func TestProperty_ComposeID(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("compound_id_kept_verbatim", prop.ForAll(
		func(fid, folder, local string) bool {
			compound := folder + ":" + local
			return ComposeID(fid, compound) == compound
		},
		genToken(),
		genToken(),
		genToken(),
	))

	properties.Property("fid_joined_in_front_of_bare_id", prop.ForAll(
		func(fid, id string) bool {
			return ComposeID(fid, id) == fid+":"+id
		},
		genToken(),
		genToken(),
	))

	properties.Property("compose_then_split_round_trips", prop.ForAll(
		func(fid, id string) bool {
			folder, local := SplitCompoundID(ComposeID(fid, id))
			return folder == fid && local == id
		},
		genToken(),
		genToken(),
	))

	properties.TestingRun(t)
}

func TestFolderOf(t *testing.T) {
	tests := []struct {
		name string
		fid  string
		id   string
		want string
	}{
		{"explicit fid wins", "2", "5:abc", "2"},
		{"compound prefix used when no fid", "", "3:abc", "3"},
		{"inbox default when nothing present", "", "abc", "5"},
		{"inbox default for empty id", "", "", "5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FolderOf(tt.fid, tt.id); got != tt.want {
				t.Errorf("FolderOf(%q, %q) = %q, want %q", tt.fid, tt.id, got, tt.want)
			}
		})
	}
}

func TestComposeID_Trimming(t *testing.T) {
	if got := ComposeID(" 5 ", " abc "); got != "5:abc" {
		t.Errorf("ComposeID with padding = %q, want %q", got, "5:abc")
	}
	if got := ComposeID("5", "   "); got != "" {
		t.Errorf("ComposeID with blank id = %q, want empty", got)
	}
}

func TestEnsureLink(t *testing.T) {
	base := "https://e.mail.ru"

	cached := Message{ID: "abc", Link: "https://e.mail.ru/5/abc/"}
	if got := EnsureLink(base, cached); got != cached.Link {
		t.Errorf("EnsureLink kept link = %q, want %q", got, cached.Link)
	}

	stale := Message{ID: "5:abc"}
	if got := EnsureLink(base, stale); got != "https://e.mail.ru/5/abc/" {
		t.Errorf("EnsureLink re-derived = %q, want %q", got, "https://e.mail.ru/5/abc/")
	}

	empty := Message{}
	if got := EnsureLink(base, empty); got != "https://e.mail.ru/messages/inbox/" {
		t.Errorf("EnsureLink empty message = %q, want inbox fallback", got)
	}
}
