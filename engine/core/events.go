package core

import "sync"

type EventContext struct {
	// Path of the document the event is about, if any.
	Path string
	// PassID of the import pass that raised the event, if any.
	PassID string
	// Data carries the event payload, e.g. *metadata.ImportResult or an error.
	Data interface{}
}

// System internal event codes. Application should use codes beyond 255.
type SystemEventCode int

const (
	// Shuts the application down.
	EVENT_CODE_APPLICATION_QUIT SystemEventCode = 0x01

	// A document finished decoding (possibly with per-object errors).
	/* Context usage:
	 * result := data.Data.(*metadata.ImportResult)
	 */
	EVENT_CODE_DOCUMENT_IMPORTED SystemEventCode = 0x02

	// A document could not be decoded at all.
	/* Context usage:
	 * err := data.Data.(error)
	 */
	EVENT_CODE_DOCUMENT_FAILED SystemEventCode = 0x03

	// A watched document changed on disk and is queued for re-import.
	EVENT_CODE_DOCUMENT_CHANGED SystemEventCode = 0x04

	MAX_EVENT_CODE SystemEventCode = 0xFF
)

// This should be more than enough codes...
const MAX_MESSAGE_CODES = 16384

type registeredEvent struct {
	listener interface{}
	callback FnOnEvent
}

type eventCodeEntry struct {
	events []*registeredEvent
}

// State structure.
type eventSystemState struct {
	mutex sync.RWMutex
	// Lookup table for event codes.
	registered [MAX_MESSAGE_CODES]eventCodeEntry
}

/**
 * Event system internal state.
 */
var onceEvent sync.Once
var eventState *eventSystemState = nil

// Should return true if handled.
type FnOnEvent func(code SystemEventCode, sender interface{}, listenerInst interface{}, data EventContext) bool

func EventInitialize() bool {
	onceEvent.Do(func() {
		eventState = &eventSystemState{}
	})
	return eventState != nil
}

func EventShutdown() error {
	if eventState == nil {
		return nil
	}
	eventState.mutex.Lock()
	defer eventState.mutex.Unlock()
	for i := 0; i < MAX_MESSAGE_CODES; i++ {
		eventState.registered[i].events = nil
	}
	return nil
}

/**
 * Register to listen for when events are sent with the provided code. Events with duplicate
 * listeners will not be registered again and will cause this to return false.
 * @param code The event code to listen for.
 * @param listener A pointer to a listener instance. Can be nil.
 * @param onEvent The callback function to be invoked when the event code is fired.
 * @returns true if the event is successfully registered; otherwise false.
 */
func EventRegister(code SystemEventCode, listener interface{}, onEvent FnOnEvent) bool {
	if eventState == nil || onEvent == nil {
		return false
	}
	eventState.mutex.Lock()
	defer eventState.mutex.Unlock()

	for _, e := range eventState.registered[code].events {
		if e.listener == listener {
			LogWarn("listener already registered for event code %d", code)
			return false
		}
	}
	eventState.registered[code].events = append(eventState.registered[code].events, &registeredEvent{
		listener: listener,
		callback: onEvent,
	})
	return true
}

/**
 * Unregister from listening for when events are sent with the provided code. If no matching
 * registration is found, this function returns false.
 */
func EventUnregister(code SystemEventCode, listener interface{}) bool {
	if eventState == nil {
		return false
	}
	eventState.mutex.Lock()
	defer eventState.mutex.Unlock()

	events := eventState.registered[code].events
	for i, e := range events {
		if e.listener == listener {
			eventState.registered[code].events = append(events[:i], events[i+1:]...)
			return true
		}
	}
	// Not found.
	return false
}

/**
 * Fires an event to listeners of the given code. If an event handler returns
 * true, the event is considered handled and is not passed on to any more listeners.
 * @returns true if handled, otherwise false.
 */
func EventFire(code SystemEventCode, sender interface{}, context EventContext) bool {
	if eventState == nil {
		return false
	}
	eventState.mutex.RLock()
	events := make([]*registeredEvent, len(eventState.registered[code].events))
	copy(events, eventState.registered[code].events)
	eventState.mutex.RUnlock()

	for _, e := range events {
		if e.callback(code, sender, e.listener, context) {
			// Message has been handled, do not send to other listeners.
			return true
		}
	}
	return false
}
