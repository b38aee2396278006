package controller

import "time"

// NotificationKind selects the toast style.
type NotificationKind string

const (
	KindSuccess NotificationKind = "success"
	KindError   NotificationKind = "error"
	KindInfo    NotificationKind = "info"
)

// Notification is a transient message. Only one is active at a time; a new
// one replaces the previous and restarts the dismiss timer.
type Notification struct {
	Key       string           `json:"key"`
	Message   string           `json:"message"`
	Kind      NotificationKind `json:"kind"`
	ExpiresAt time.Time        `json:"expiresAt"`
}

// Notification returns the active notification, or nil.
func (c *Controller) Notification() *Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.activeNotificationLocked()
	if n == nil {
		return nil
	}
	cp := *n
	return &cp
}

// notifyLocked localizes key in the active language at emission time.
func (c *Controller) notifyLocked(kind NotificationKind, key string) {
	if c.closed {
		return
	}
	if c.dismiss != nil {
		c.dismiss.Stop()
	}

	n := &Notification{
		Key:       key,
		Message:   c.catalog.Text(c.language, key),
		Kind:      kind,
		ExpiresAt: c.now().Add(c.ttl),
	}
	c.notification = n
	c.dismiss = time.AfterFunc(c.ttl, func() { c.clearNotification(n) })
}

func (c *Controller) clearNotification(n *Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.notification == n {
		c.notification = nil
	}
}

func (c *Controller) activeNotificationLocked() *Notification {
	n := c.notification
	if n == nil || !c.now().Before(n.ExpiresAt) {
		return nil
	}
	return n
}
