package command

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/matsen/tagbot/internal/tag"
)

func newTestRouter(t *testing.T) (*Router, *tag.Store, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	store := tag.NewStore(filepath.Join(t.TempDir(), tag.DefaultFile))
	return NewRouter(store, zap.New(core)), store, logs
}

func createReq(name, content, url string) Request {
	req := Request{
		Command: CmdCreateTag,
		Options: map[string]string{OptName: name},
	}
	if content != "" {
		req.Options[OptContent] = content
	}
	if url != "" {
		req.Attachment = &Attachment{URL: url, Filename: filepath.Base(url)}
	}
	return req
}

func tagReq(command, name string) Request {
	return Request{Command: command, Options: map[string]string{OptTag: name}}
}

func TestRouter_Commands(t *testing.T) {
	r, _, _ := newTestRouter(t)

	steps := []struct {
		name string
		req  Request
		want Reply
	}{
		{
			name: "list with no tags",
			req:  Request{Command: CmdListTags},
			want: Reply{Content: MsgNoTags},
		},
		{
			name: "create without content or attachment",
			req:  createReq("empty", "", ""),
			want: Reply{Content: MsgMissingContent, Ephemeral: true},
		},
		{
			name: "create text tag",
			req:  createReq("Rules", "Be nice", ""),
			want: Reply{Content: "Successfully created the Rules tag"},
		},
		{
			name: "create attachment tag",
			req:  createReq("logo", "", "https://cdn.example.com/logo.png"),
			want: Reply{Content: "Successfully created the logo tag"},
		},
		{
			name: "create duplicate in other case",
			req:  createReq("RULES", "Be mean", ""),
			want: Reply{Content: MsgDuplicate, Ephemeral: true},
		},
		{
			name: "get text tag any case",
			req:  tagReq(CmdTag, "rules"),
			want: Reply{Content: "Be nice"},
		},
		{
			name: "get attachment tag",
			req:  tagReq(CmdTag, "LOGO"),
			want: Reply{Files: []string{"https://cdn.example.com/logo.png"}},
		},
		{
			name: "get missing tag",
			req:  tagReq(CmdTag, "nope"),
			want: Reply{Content: MsgNotFound, Ephemeral: true},
		},
		{
			name: "list sorted",
			req:  Request{Command: CmdListTags},
			want: Reply{Content: "Available tags: logo, Rules"},
		},
		{
			name: "delete echoes stored casing",
			req:  tagReq(CmdDeleteTag, "rules"),
			want: Reply{Content: "Successfully deleted the Rules tag"},
		},
		{
			name: "delete missing tag",
			req:  tagReq(CmdDeleteTag, "rules"),
			want: Reply{Content: MsgNotFound, Ephemeral: true},
		},
		{
			name: "unknown command",
			req:  Request{Command: "ban"},
			want: Reply{Content: MsgGenericError, Ephemeral: true},
		},
	}

	// Steps share one store and run in order.
	for _, step := range steps {
		got := r.Handle(step.req)
		if diff := cmp.Diff(step.want, got); diff != "" {
			t.Errorf("%s: Handle() mismatch (-want +got):\n%s", step.name, diff)
		}
	}
}

func TestRouter_CreateWithContentAndAttachment(t *testing.T) {
	r, store, _ := newTestRouter(t)

	r.Handle(createReq("both", "look at this", "https://cdn.example.com/a.txt"))

	got, err := store.Get("both")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	want := tag.Record{Content: "look at this", Attachments: []string{"https://cdn.example.com/a.txt"}}
	if diff := cmp.Diff(want, got.Record); diff != "" {
		t.Errorf("stored record mismatch (-want +got):\n%s", diff)
	}
}

func TestRouter_CorruptStorage(t *testing.T) {
	r, store, logs := newTestRouter(t)
	if err := os.WriteFile(store.Path(), []byte("{broken"), 0644); err != nil {
		t.Fatal(err)
	}

	for _, req := range []Request{
		{Command: CmdListTags},
		tagReq(CmdTag, "x"),
		tagReq(CmdDeleteTag, "x"),
		createReq("x", "y", ""),
	} {
		got := r.Handle(req)
		want := Reply{Content: MsgGenericError, Ephemeral: true}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Handle(%s) mismatch (-want +got):\n%s", req.Command, diff)
		}
	}

	incidents := logs.FilterLevelExact(zap.ErrorLevel).FilterField(zap.String("path", store.Path()))
	if incidents.Len() != 4 {
		t.Errorf("logged %d corrupt-storage incidents, want 4", incidents.Len())
	}
}

func TestRouter_HandEditedEmptyRecord(t *testing.T) {
	r, store, logs := newTestRouter(t)
	data := `{"blank": {}, "nulls": {"content": null, "attachments": [""]}}`
	if err := os.WriteFile(store.Path(), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"blank", "NULLS"} {
		got := r.Handle(tagReq(CmdTag, name))
		want := Reply{Content: MsgGenericError, Ephemeral: true}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Handle(tag %s) mismatch (-want +got):\n%s", name, diff)
		}
	}
	if n := logs.FilterMessage("command failed").Len(); n != 2 {
		t.Errorf("logged %d failures for empty records, want 2", n)
	}

	// Deleting the broken entry still works.
	got := r.Handle(tagReq(CmdDeleteTag, "blank"))
	if got.Content != "Successfully deleted the blank tag" {
		t.Errorf("Handle(deletetag) = %+v", got)
	}
}

func TestRouter_UserErrorsAreNotIncidents(t *testing.T) {
	r, _, logs := newTestRouter(t)

	r.Handle(tagReq(CmdTag, "missing"))
	r.Handle(createReq("empty", "", ""))

	if n := logs.FilterLevelExact(zap.ErrorLevel).Len(); n != 0 {
		t.Errorf("logged %d error entries for routine user mistakes, want 0", n)
	}
}

func TestRouter_Autocomplete(t *testing.T) {
	r, _, _ := newTestRouter(t)
	for _, name := range []string{"Apple", "Pineapple", "apricot", "banana"} {
		r.Handle(createReq(name, name, ""))
	}

	want := []string{"Apple", "apricot", "Pineapple"}
	for _, cmd := range []string{CmdTag, CmdDeleteTag} {
		got := r.Autocomplete(cmd, "ap")
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Autocomplete(%s) mismatch (-want +got):\n%s", cmd, diff)
		}
	}

	if got := r.Autocomplete(CmdCreateTag, "ap"); got != nil {
		t.Errorf("Autocomplete(createtag) = %v, want nil", got)
	}
}

type failingStore struct{ err error }

func (f failingStore) Get(string) (tag.Tag, error) { return tag.Tag{}, f.err }
func (f failingStore) Create(string, tag.Record) (tag.Tag, error) {
	return tag.Tag{}, f.err
}
func (f failingStore) Delete(string) (tag.Tag, error) { return tag.Tag{}, f.err }
func (f failingStore) List() ([]string, error)        { return nil, f.err }
func (f failingStore) Suggest(string, int) []string   { return nil }

func TestRouter_UnexpectedError(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := NewRouter(failingStore{err: errors.New("disk on fire")}, zap.New(core))

	got := r.Handle(Request{Command: CmdListTags})
	want := Reply{Content: MsgGenericError, Ephemeral: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Handle() mismatch (-want +got):\n%s", diff)
	}
	if logs.FilterMessage("command failed").Len() != 1 {
		t.Errorf("unexpected error was not logged")
	}
}
