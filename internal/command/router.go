// Package command turns chat commands into tag store operations and
// user-facing replies. It knows nothing about the chat transport.
package command

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/matsen/tagbot/internal/tag"
)

// Command names.
const (
	CmdTag       = "tag"
	CmdCreateTag = "createtag"
	CmdDeleteTag = "deletetag"
	CmdListTags  = "listtags"
)

// Option names.
const (
	OptName       = "name"
	OptContent    = "content"
	OptAttachment = "attachment"
	OptTag        = "tag"
)

// User-facing messages.
const (
	MsgCreated        = "Successfully created the %s tag"
	MsgDeleted        = "Successfully deleted the %s tag"
	MsgMissingContent = "You have to provide either a message or an attachment"
	MsgDuplicate      = "A tag with that name already exists"
	MsgNotFound       = "That tag doesn't exist"
	MsgAvailable      = "Available tags: %s"
	MsgNoTags         = "No tags exist"
	MsgGenericError   = "There was an error while executing this command"
)

var (
	// ErrUnknownCommand is returned for command names the router does not handle.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrEmptyRecord is returned when a stored tag has nothing to send,
	// which only happens after the file was edited by hand.
	ErrEmptyRecord = errors.New("stored tag has no content or attachments")
)

// Attachment is a file uploaded alongside a command.
type Attachment struct {
	URL      string
	Filename string
}

// Request is an inbound slash command.
type Request struct {
	Command    string
	Options    map[string]string
	Attachment *Attachment
}

// Option returns a string option, or "" if absent.
func (r Request) Option(name string) string {
	return r.Options[name]
}

// Reply is the response to a command. Files are attachment URLs.
type Reply struct {
	Content   string
	Files     []string
	Ephemeral bool
}

// TagStore is the subset of *tag.Store the router needs.
type TagStore interface {
	Get(name string) (tag.Tag, error)
	Create(name string, rec tag.Record) (tag.Tag, error)
	Delete(name string) (tag.Tag, error)
	List() ([]string, error)
	Suggest(query string, limit int) []string
}

// Router dispatches requests to the tag store.
type Router struct {
	store TagStore
	log   *zap.Logger
}

// NewRouter creates a router over store.
func NewRouter(store TagStore, log *zap.Logger) *Router {
	return &Router{store: store, log: log}
}

// Handle runs a command and always produces a reply. Store errors become
// short messages; anything unexpected becomes the generic error notice.
func (r *Router) Handle(req Request) Reply {
	reply, err := r.dispatch(req)
	if err != nil {
		return r.failure(req, err)
	}
	return reply
}

// Autocomplete returns ranked tag name suggestions for the focused option
// of commands that take an existing tag.
func (r *Router) Autocomplete(command, focused string) []string {
	switch command {
	case CmdTag, CmdDeleteTag:
		return r.store.Suggest(focused, tag.DefaultSearchLimit)
	default:
		return nil
	}
}

func (r *Router) dispatch(req Request) (Reply, error) {
	switch req.Command {
	case CmdTag:
		return r.getTag(req)
	case CmdCreateTag:
		return r.createTag(req)
	case CmdDeleteTag:
		return r.deleteTag(req)
	case CmdListTags:
		return r.listTags()
	default:
		return Reply{}, fmt.Errorf("%w: %q", ErrUnknownCommand, req.Command)
	}
}

func (r *Router) getTag(req Request) (Reply, error) {
	t, err := r.store.Get(req.Option(OptTag))
	if err != nil {
		return Reply{}, err
	}
	rec := t.Compact()
	if rec.Empty() {
		return Reply{}, fmt.Errorf("%w: %q", ErrEmptyRecord, t.Name)
	}
	return Reply{Content: rec.Content, Files: rec.Attachments}, nil
}

func (r *Router) createTag(req Request) (Reply, error) {
	name := req.Option(OptName)
	rec := tag.Record{Content: req.Option(OptContent)}
	if req.Attachment != nil && req.Attachment.URL != "" {
		rec.Attachments = []string{req.Attachment.URL}
	}

	created, err := r.store.Create(name, rec)
	if err != nil {
		return Reply{}, err
	}
	r.log.Info("tag created", zap.String("tag", created.Name))
	return Reply{Content: fmt.Sprintf(MsgCreated, created.Name)}, nil
}

func (r *Router) deleteTag(req Request) (Reply, error) {
	removed, err := r.store.Delete(req.Option(OptTag))
	if err != nil {
		return Reply{}, err
	}
	r.log.Info("tag deleted", zap.String("tag", removed.Name))
	return Reply{Content: fmt.Sprintf(MsgDeleted, removed.Name)}, nil
}

func (r *Router) listTags() (Reply, error) {
	names, err := r.store.List()
	if err != nil {
		return Reply{}, err
	}
	if len(names) == 0 {
		return Reply{Content: MsgNoTags}, nil
	}
	tag.SortNames(names)
	return Reply{Content: fmt.Sprintf(MsgAvailable, strings.Join(names, ", "))}, nil
}

// failure maps an error to the reply shown to the user.
func (r *Router) failure(req Request, err error) Reply {
	var corrupt *tag.StorageCorruptError
	switch {
	case errors.Is(err, tag.ErrNotFound):
		r.log.Debug("tag not found", zap.String("command", req.Command))
		return Reply{Content: MsgNotFound, Ephemeral: true}
	case errors.Is(err, tag.ErrDuplicateTag):
		r.log.Debug("duplicate tag", zap.String("command", req.Command))
		return Reply{Content: MsgDuplicate, Ephemeral: true}
	case errors.Is(err, tag.ErrInvalidTag):
		r.log.Debug("tag without content", zap.String("command", req.Command))
		return Reply{Content: MsgMissingContent, Ephemeral: true}
	case errors.As(err, &corrupt):
		r.log.Error("tag storage is corrupt; repair or clear the file",
			zap.String("command", req.Command),
			zap.String("path", corrupt.Path),
			zap.Error(corrupt.Err))
	default:
		r.log.Error("command failed", zap.String("command", req.Command), zap.Error(err))
	}
	return Reply{Content: MsgGenericError, Ephemeral: true}
}
