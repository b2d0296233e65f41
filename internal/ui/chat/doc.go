// Copyright (c) 2025 Vorgawall Shop
// SPDX-License-Identifier: LicenseRef-Vorgawall-1.0

/*
Package chat provides the interactive chat view for the Vorgawall
assistant TUI, built on Bubble Tea.

The Model wraps a conversation.Controller and renders its state:

  - Idle: the input line accepts text; enter sends
  - Generating: a spinner runs and input is locked
  - Revealing: the incoming reply is painted word by word

Controller events arrive on the channel returned by SendMessage and are
bridged into Bubble Tea messages by waitForEvent. The history overlay
(ctrl+h) lists stored conversations and reloads on external slot changes
via the storage watcher.

Slash commands handled in the input line:

	/attach <path>   stage a file or image for the next message
	/feature <name>  toggle search, image, or article context
	/rename <title>  rename the current conversation
	/export          print the conversation as Markdown to the log dir
*/
package chat
