package xmldoc

import (
	"errors"

	"github.com/beevik/etree"
	"github.com/charmbracelet/log"
)

// ErrIncludeFileNotFound is returned by Import when an include directive
// names a file that does not exist and no ErrorHandler is installed. The
// returned error also matches fs.ErrNotExist.
var ErrIncludeFileNotFound = errors.New("include file not found")

// ErrorHandler receives recoverable documentation problems. Each hook gets
// the member entry the problem belongs to.
type ErrorHandler interface {
	UnresolvedInheritDoc(member *etree.Element)
	IncludeFileNotFound(member *etree.Element, file string)
	IncludePathNotMatched(member *etree.Element, file, path string)
}

// HandlerFuncs adapts plain functions to ErrorHandler. Nil fields ignore
// the notification.
type HandlerFuncs struct {
	OnUnresolvedInheritDoc  func(member *etree.Element)
	OnIncludeFileNotFound   func(member *etree.Element, file string)
	OnIncludePathNotMatched func(member *etree.Element, file, path string)
}

func (h HandlerFuncs) UnresolvedInheritDoc(member *etree.Element) {
	if h.OnUnresolvedInheritDoc != nil {
		h.OnUnresolvedInheritDoc(member)
	}
}

func (h HandlerFuncs) IncludeFileNotFound(member *etree.Element, file string) {
	if h.OnIncludeFileNotFound != nil {
		h.OnIncludeFileNotFound(member, file)
	}
}

func (h HandlerFuncs) IncludePathNotMatched(member *etree.Element, file, path string) {
	if h.OnIncludePathNotMatched != nil {
		h.OnIncludePathNotMatched(member, file, path)
	}
}

// LogHandler logs every notification as a warning and counts them.
type LogHandler struct {
	logger *log.Logger

	UnresolvedInheritDocs int
	MissingIncludeFiles   int
	MissingIncludePaths   int
}

func NewLogHandler(logger *log.Logger) *LogHandler {
	return &LogHandler{logger: logger}
}

func (h *LogHandler) UnresolvedInheritDoc(member *etree.Element) {
	h.UnresolvedInheritDocs++
	h.warn("unresolved inheritdoc", "member", memberName(member))
}

func (h *LogHandler) IncludeFileNotFound(member *etree.Element, file string) {
	h.MissingIncludeFiles++
	h.warn("include file not found", "member", memberName(member), "file", file)
}

func (h *LogHandler) IncludePathNotMatched(member *etree.Element, file, path string) {
	h.MissingIncludePaths++
	h.warn("include path matched nothing", "member", memberName(member), "file", file, "path", path)
}

func (h *LogHandler) warn(msg string, keyvals ...any) {
	if h.logger != nil {
		h.logger.Warn(msg, keyvals...)
	}
}

func memberName(el *etree.Element) string {
	if el == nil {
		return ""
	}
	return el.SelectAttrValue("name", el.Tag)
}
