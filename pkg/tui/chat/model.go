package chat

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/vishnuprakaz/sales-assist/pkg/chat"
	"github.com/vishnuprakaz/sales-assist/pkg/controllers"
	"github.com/vishnuprakaz/sales-assist/pkg/tui/chat/status"
	"github.com/vishnuprakaz/sales-assist/pkg/tui/theme"
)

// Config wires the chat view to an agent.
type Config struct {
	Client      controllers.AgentClient
	Attachments *chat.Attachments
	Controller  controllers.Options
	// MarkdownStyle is a glamour style name; empty means "dark".
	MarkdownStyle string
}

type chatModel struct {
	ctx        context.Context
	controller *controllers.ChatController
	bus        *eventBus

	viewport  viewport.Model
	textarea  textarea.Model
	spinner   spinner.Model
	statusBar status.StatusModel
	styles    *theme.Styles
	renderer  *theme.Renderer
	mdStyle   string

	// reply in flight
	streaming bool
	live      *liveSurface
	turnBase  int
	cancel    context.CancelFunc

	notice      string
	noticeKind  noticeKind
	numEscPress int
	width       int
	height      int
}

// NewChatModel builds the chat view and its controller. Close must be
// called once the program exits.
func NewChatModel(ctx context.Context, cfg Config) chatModel {
	bus := newEventBus()

	opts := cfg.Controller
	onCleared := opts.OnSelectionCleared
	opts.OnSelectionCleared = func() {
		if onCleared != nil {
			onCleared()
		}
		bus.send(selectionClearedMsg{})
	}

	styles := theme.DefaultStyles()

	ta := textarea.New()
	styles.ApplyTextarea(&ta)
	ta.Focus()
	ta.Placeholder = "Ask about a product, or /help"
	ta.CharLimit = 0
	ta.SetHeight(1)
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline = keys.Newline

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = styles.Loader

	mdStyle := cfg.MarkdownStyle
	if mdStyle == "" {
		mdStyle = "dark"
	}

	return chatModel{
		ctx:        ctx,
		controller: controllers.NewChatController(cfg.Client, cfg.Attachments, opts),
		bus:        bus,
		viewport:   createViewport(80, 20),
		textarea:   ta,
		spinner:    sp,
		statusBar:  status.NewStatusModel(),
		styles:     styles,
		renderer:   theme.NewRenderer(78, mdStyle),
		mdStyle:    mdStyle,
	}
}

// Close stops the reply in flight and releases the turn goroutine.
func (m chatModel) Close() {
	if m.cancel != nil {
		m.cancel()
	}
	m.bus.close()
}

func (m chatModel) Controller() *controllers.ChatController {
	return m.controller
}
