// Package cmd implements the calbot command line interface: serving
// the Telegram bot, running the one-time Google authorization flow and
// printing the version.
package cmd
