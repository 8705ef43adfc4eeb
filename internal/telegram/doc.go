// Package telegram connects the session manager to the Telegram Bot
// API. It polls for updates, converts messages and button presses into
// session inputs, and implements the outgoing transport: plain
// messages, inline option keyboards, the persistent main menu, and
// chart images.
package telegram
