// Copyright (c) 2025 Vorgawall Shop
// SPDX-License-Identifier: LicenseRef-Vorgawall-1.0

package model

import "github.com/google/uuid"

// AttachmentKind distinguishes image attachments from generic files.
type AttachmentKind string

const (
	AttachmentImage AttachmentKind = "image"
	AttachmentFile  AttachmentKind = "file"
)

// Attachment is a reference to media attached to a message. Only the
// reference is stored, never the bytes; the attachment is owned by the
// message that carries it and is immutable after creation.
type Attachment struct {
	ID          string         `json:"id"`
	Kind        AttachmentKind `json:"kind"`
	LocationRef string         `json:"location_ref"`
	DisplayName string         `json:"display_name"`
}

// NewAttachment creates an attachment with a generated ID.
func NewAttachment(kind AttachmentKind, locationRef, displayName string) Attachment {
	return Attachment{
		ID:          uuid.NewString(),
		Kind:        kind,
		LocationRef: locationRef,
		DisplayName: displayName,
	}
}
