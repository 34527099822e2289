package submitclient

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// State tracks where a submission attempt is in its lifecycle.
type State string

const (
	StateIdle      State = "idle"
	StateUploading State = "uploading"
	StateSaving    State = "saving"
	StateNotifying State = "notifying"
	StateComplete  State = "complete"
	StateFailed    State = "failed"
)

// Progress is one observable step of a submission.
type Progress struct {
	State   State
	Percent int
}

// savingThreshold is where the transfer stops being "uploading" from the
// submitter's point of view; the tail of the transfer and the server-side
// row append read as "saving".
const (
	savingThreshold  = 90
	notifyingPercent = 95
	completePercent  = 100
)

// maxRetries bounds retries after the first attempt.
const maxRetries = 2

// Sender is the transport dependency of the controller.
type Sender interface {
	Send(ctx context.Context, path string, fields map[string]string, attachment *Attachment, idempotencyKey string, onProgress ProgressFunc) (*ServerResponse, error)
}

// Controller drives one logical submission through upload, retry and
// draft bookkeeping. It is not safe for concurrent use.
type Controller struct {
	sender     Sender
	drafts     *DraftStore
	key        string
	onProgress func(Progress)
	sleep      func(time.Duration)
	retries    int
	state      State
}

// ControllerOption customizes a Controller.
type ControllerOption func(*Controller)

// WithProgress registers an observer for state transitions.
func WithProgress(fn func(Progress)) ControllerOption {
	return func(c *Controller) {
		c.onProgress = fn
	}
}

// WithSleep substitutes the backoff sleeper, for tests.
func WithSleep(fn func(time.Duration)) ControllerOption {
	return func(c *Controller) {
		c.sleep = fn
	}
}

// NewController builds a controller for one logical submission. If the
// draft store holds an interrupted draft its idempotency key is reused,
// so a resumed submission replays instead of double-submitting.
func NewController(sender Sender, drafts *DraftStore, opts ...ControllerOption) (*Controller, error) {
	c := &Controller{
		sender:  sender,
		drafts:  drafts,
		sleep:   time.Sleep,
		retries: maxRetries,
		state:   StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	if drafts != nil {
		prior, err := drafts.Load()
		if err != nil {
			return nil, err
		}
		if prior != nil && prior.IdempotencyKey != "" {
			c.key = prior.IdempotencyKey
		}
	}
	if c.key == "" {
		c.key = uuid.NewString()
	}
	return c, nil
}

// State returns the last observed state.
func (c *Controller) State() State {
	return c.state
}

// IdempotencyKey returns the key reused across retries of this
// submission.
func (c *Controller) IdempotencyKey() string {
	return c.key
}

// Submit runs the submission until terminal success or failure. Each
// attempt restarts progress at Uploading 0; transient failures back off
// attempt*2s before retrying with the identical payload and key. The
// draft is saved before the first attempt and cleared only once the
// server confirms success.
func (c *Controller) Submit(ctx context.Context, path string, fields map[string]string, attachment *Attachment) (*ServerResponse, error) {
	if c.drafts != nil {
		draft := &Draft{Path: path, Fields: fields, IdempotencyKey: c.key}
		if attachment != nil {
			draft.AttachmentPath = attachment.Path
		}
		if err := c.drafts.Save(draft); err != nil {
			return nil, err
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				c.emit(StateFailed, 0)
				return nil, ctx.Err()
			default:
			}
			c.sleep(time.Duration(attempt) * 2 * time.Second)
		}

		c.emit(StateUploading, 0)
		resp, err := c.sender.Send(ctx, path, fields, attachment, c.key, c.transferProgress)
		if err == nil {
			c.emit(StateNotifying, notifyingPercent)
			c.emit(StateComplete, completePercent)
			if c.drafts != nil {
				if clearErr := c.drafts.Clear(); clearErr != nil {
					return resp, clearErr
				}
			}
			c.state = StateIdle
			return resp, nil
		}

		lastErr = err
		if te, ok := err.(*TransportError); ok && te.Transient() && attempt < c.retries {
			continue
		}
		break
	}

	c.emit(StateFailed, 0)
	return nil, lastErr
}

// transferProgress maps raw transfer percent onto the submitter-facing
// phases. The displayed percent is capped below the notifying step so the
// sequence stays monotonic.
func (c *Controller) transferProgress(percent int) {
	if percent > savingThreshold {
		percent = savingThreshold
	}
	if percent < savingThreshold {
		c.emit(StateUploading, percent)
		return
	}
	c.emit(StateSaving, percent)
}

func (c *Controller) emit(state State, percent int) {
	c.state = state
	if c.onProgress != nil {
		c.onProgress(Progress{State: state, Percent: percent})
	}
}
