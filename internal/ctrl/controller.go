// Package ctrl is the top-level controller. Screens emit intents; the
// controller mutates the store, drives the view state machine, and owns
// the screen-scoped timers (call ticker, story auto-advance). Control flow
// is strictly one-way: intent in, state change out, re-render via the bus.
package ctrl

import (
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wooqoo/qoo/internal/bus"
	"github.com/wooqoo/qoo/internal/entity"
	"github.com/wooqoo/qoo/internal/nav"
	"github.com/wooqoo/qoo/internal/sched"
	"github.com/wooqoo/qoo/internal/store"
)

var (
	// ErrEmptyField blocks auth submission with a blank required field.
	ErrEmptyField = errors.New("required field is empty")
	// ErrNoStories rejects opening the story viewer for a user without
	// stories.
	ErrNoStories = errors.New("user has no stories")
	// ErrNoSelection is returned by conversation operations when no chat
	// is selected.
	ErrNoSelection = errors.New("no chat selected")
)

// Controller wires the store, the nav machine and the scheduler together.
type Controller struct {
	store    *store.Store
	machine  *nav.Machine
	sched    *sched.Scheduler
	bus      *bus.Bus
	logger   *zap.Logger
	callTick time.Duration

	mu          sync.Mutex
	callSeconds int
	storyIndex  int
}

// New creates a controller.
func New(st *store.Store, m *nav.Machine, sc *sched.Scheduler, b *bus.Bus, logger *zap.Logger, callTick time.Duration) *Controller {
	return &Controller{
		store:    st,
		machine:  m,
		sched:    sc,
		bus:      b,
		logger:   logger,
		callTick: callTick,
	}
}

// View returns the active view.
func (c *Controller) View() nav.View { return c.machine.View() }

// Context returns the current render context.
func (c *Controller) Context() nav.Context { return c.machine.Context() }

// Store exposes read access for the rendering layer.
func (c *Controller) Store() *store.Store { return c.store }

// --- Auth flow ---

// ChooseSignIn moves from welcome to the sign-in screen.
func (c *Controller) ChooseSignIn() error { return c.dispatch(nav.Intent{Event: nav.EvChooseSignIn}) }

// ChooseSignUp moves from welcome to the sign-up screen.
func (c *Controller) ChooseSignUp() error { return c.dispatch(nav.Intent{Event: nav.EvChooseSignUp}) }

// ChooseSocial moves from welcome straight into onboarding.
func (c *Controller) ChooseSocial() error { return c.dispatch(nav.Intent{Event: nav.EvChooseSocial}) }

// SignIn submits credentials. Submission always succeeds once both fields
// are non-empty; there is no backend to reject them.
func (c *Controller) SignIn(handle, password string) error {
	if blank(handle) || blank(password) {
		return ErrEmptyField
	}
	c.logger.Info("signed in", zap.String("handle", handle))
	return c.dispatch(nav.Intent{Event: nav.EvSubmitAuth})
}

// SignUp submits the registration form. Always succeeds once the required
// fields are filled.
func (c *Controller) SignUp(name, username, phone string) error {
	if blank(name) || blank(username) || blank(phone) {
		return ErrEmptyField
	}
	c.logger.Info("signed up", zap.String("username", username))
	return c.dispatch(nav.Intent{Event: nav.EvSubmitAuth})
}

// FinishOnboarding completes the social sign-in path.
func (c *Controller) FinishOnboarding() error {
	return c.dispatch(nav.Intent{Event: nav.EvFinishOnboarding})
}

// SignOut clears the session and every transient selection, and stops any
// screen timer that could still be pending.
func (c *Controller) SignOut() error {
	c.sched.Cancel(sched.OwnerCall)
	c.sched.Cancel(sched.OwnerStory)
	if err := c.dispatch(nav.Intent{Event: nav.EvSignOut}); err != nil {
		return err
	}
	c.logger.Info("signed out")
	return nil
}

// --- Navigation ---

// OpenChat selects a conversation and zeroes its unread counter.
func (c *Controller) OpenChat(chatID string) error {
	if err := c.dispatch(nav.Intent{Event: nav.EvOpenChat, ChatID: chatID}); err != nil {
		return err
	}
	return c.store.MarkChatRead(chatID)
}

// Back leaves the current screen (conversation and account back to the
// chat list, chat info back to the conversation, settings back to account).
func (c *Controller) Back() error { return c.dispatch(nav.Intent{Event: nav.EvBack}) }

// OpenChatInfo shows details for the selected conversation.
func (c *Controller) OpenChatInfo() error { return c.dispatch(nav.Intent{Event: nav.EvOpenChatInfo}) }

// OpenAccount shows the account screen.
func (c *Controller) OpenAccount() error { return c.dispatch(nav.Intent{Event: nav.EvOpenAccount}) }

// OpenSettings shows one account sub-setting screen.
func (c *Controller) OpenSettings(page nav.SettingsPage) error {
	return c.dispatch(nav.Intent{Event: nav.EvOpenSettings, Page: page})
}

// --- Calls ---

// StartCall enters the call screen and starts the count-up ticker. The
// duration exists purely for display.
func (c *Controller) StartCall(medium entity.CallMedium) error {
	if err := c.dispatch(nav.Intent{Event: nav.EvStartCall, Medium: medium}); err != nil {
		return err
	}
	c.mu.Lock()
	c.callSeconds = 0
	c.mu.Unlock()
	c.sched.Every(sched.OwnerCall, c.callTick, func() {
		c.mu.Lock()
		c.callSeconds++
		n := c.callSeconds
		c.mu.Unlock()
		c.bus.Publish(bus.Event{
			Kind:      bus.KindCallTick,
			Timestamp: time.Now(),
			Payload:   bus.CallTick{Seconds: n},
		})
	})
	return nil
}

// EndCall cancels the ticker and returns to the conversation.
func (c *Controller) EndCall() error {
	c.sched.Cancel(sched.OwnerCall)
	return c.dispatch(nav.Intent{Event: nav.EvEndCall})
}

// CallSeconds returns the running call duration in seconds.
func (c *Controller) CallSeconds() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.callSeconds
}

// --- Stories ---

// ViewStories opens the story viewer for a user. Entering the viewer
// clears that user's unread-story flag; no other path does.
func (c *Controller) ViewStories(userID string) error {
	u, err := c.store.User(userID)
	if err != nil {
		return err
	}
	if len(u.Stories) == 0 {
		return ErrNoStories
	}
	if err := c.dispatch(nav.Intent{Event: nav.EvViewStories, UserID: userID}); err != nil {
		return err
	}
	if err := c.store.MarkStoriesRead(userID); err != nil {
		return err
	}
	c.mu.Lock()
	c.storyIndex = 0
	c.mu.Unlock()
	c.scheduleStoryAdvance()
	return nil
}

// CloseStories cancels the auto-advance and returns to the chat list.
func (c *Controller) CloseStories() error {
	c.sched.Cancel(sched.OwnerStory)
	return c.dispatch(nav.Intent{Event: nav.EvCloseStories})
}

// AdvanceStory moves to the next story; past the last one the viewer
// closes, as the original flow does.
func (c *Controller) AdvanceStory() error {
	u, err := c.storySubject()
	if err != nil {
		return err
	}
	c.mu.Lock()
	last := c.storyIndex >= len(u.Stories)-1
	if !last {
		c.storyIndex++
	}
	c.mu.Unlock()
	if last {
		return c.CloseStories()
	}
	c.publishStoryAdvanced()
	c.scheduleStoryAdvance()
	return nil
}

// PrevStory moves to the previous story, staying on the first.
func (c *Controller) PrevStory() error {
	c.mu.Lock()
	moved := c.storyIndex > 0
	if moved {
		c.storyIndex--
	}
	c.mu.Unlock()
	if moved {
		c.publishStoryAdvanced()
	}
	c.scheduleStoryAdvance()
	return nil
}

// CurrentStory returns the story being displayed and its owner.
func (c *Controller) CurrentStory() (entity.Story, entity.User, bool) {
	u, err := c.storySubject()
	idx := c.StoryIndex()
	if err != nil || idx >= len(u.Stories) {
		return entity.Story{}, entity.User{}, false
	}
	return u.Stories[idx], u, true
}

// StoryIndex returns the current position in the subject's story sequence.
func (c *Controller) StoryIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.storyIndex
}

func (c *Controller) storySubject() (entity.User, error) {
	id := c.machine.Context().StoryUserID
	if id == "" {
		return entity.User{}, ErrNoSelection
	}
	return c.store.User(id)
}

func (c *Controller) scheduleStoryAdvance() {
	c.sched.Cancel(sched.OwnerStory)
	story, _, ok := c.CurrentStory()
	if !ok {
		return
	}
	c.sched.After(sched.OwnerStory, story.Duration, func() {
		if err := c.AdvanceStory(); err != nil {
			c.logger.Warn("story advance failed", zap.Error(err))
		}
	})
}

func (c *Controller) publishStoryAdvanced() {
	c.bus.Publish(bus.Event{Kind: bus.KindStoryAdvanced, Timestamp: time.Now(), Payload: c.StoryIndex()})
}

// --- Conversation operations ---

// SendText appends a text message to the selected chat. The responder
// takes it from there for direct chats.
func (c *Controller) SendText(text string) error {
	chatID, err := c.selectedChat()
	if err != nil {
		return err
	}
	_, err = c.store.SendText(chatID, text)
	return err
}

// SendVoice appends a voice note to the selected chat.
func (c *Controller) SendVoice(note entity.VoiceNote) error {
	chatID, err := c.selectedChat()
	if err != nil {
		return err
	}
	_, err = c.store.SendVoice(chatID, note)
	return err
}

// CreatePoll appends a poll to the selected chat.
func (c *Controller) CreatePoll(question string, options []string, allowMultiple bool) error {
	chatID, err := c.selectedChat()
	if err != nil {
		return err
	}
	_, err = c.store.SendPoll(chatID, question, options, allowMultiple)
	return err
}

// TogglePin flips a message's pinned flag in the selected chat.
func (c *Controller) TogglePin(msgID string) error {
	chatID, err := c.selectedChat()
	if err != nil {
		return err
	}
	_, err = c.store.TogglePin(chatID, msgID)
	return err
}

// Vote toggles the operator's vote on a poll option in the selected chat.
func (c *Controller) Vote(msgID, optionID string) error {
	chatID, err := c.selectedChat()
	if err != nil {
		return err
	}
	return c.store.ToggleVote(chatID, msgID, optionID, entity.OperatorID)
}

// SaveContact renames the selected direct chat's counterpart and marks
// them saved everywhere they appear.
func (c *Controller) SaveContact(name string) error {
	chatID, err := c.selectedChat()
	if err != nil {
		return err
	}
	chat, err := c.store.Chat(chatID)
	if err != nil {
		return err
	}
	u, ok := chat.Counterpart()
	if !ok {
		return ErrNoSelection
	}
	return c.store.SaveContact(u.ID, name)
}

func (c *Controller) selectedChat() (string, error) {
	id := c.machine.Context().ChatID
	if id == "" {
		return "", ErrNoSelection
	}
	return id, nil
}

func (c *Controller) dispatch(in nav.Intent) error {
	_, err := c.machine.Dispatch(in)
	return err
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
