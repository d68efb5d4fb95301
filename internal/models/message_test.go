package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestMessageContent_Validate(t *testing.T) {
	attachment := &FileAttachment{
		FileName: "resume.pdf",
		FileURL:  "uploads/resume.pdf",
		FileSize: 2048,
		MimeType: "application/pdf",
	}

	tests := []struct {
		name        string
		messageType MessageType
		content     MessageContent
		wantErr     bool
	}{
		{
			name:        "Text with body",
			messageType: MessageText,
			content:     MessageContent{Text: "hello"},
			wantErr:     false,
		},
		{
			name:        "Text without body",
			messageType: MessageText,
			content:     MessageContent{},
			wantErr:     true,
		},
		{
			name:        "Text carrying a file",
			messageType: MessageText,
			content:     MessageContent{Text: "hello", File: attachment},
			wantErr:     true,
		},
		{
			name:        "System with body",
			messageType: MessageSystem,
			content:     MessageContent{Text: "Conversation started"},
			wantErr:     false,
		},
		{
			name:        "File with attachment",
			messageType: MessageFile,
			content:     MessageContent{File: attachment},
			wantErr:     false,
		},
		{
			name:        "File without attachment",
			messageType: MessageFile,
			content:     MessageContent{Text: "no file here"},
			wantErr:     true,
		},
		{
			name:        "Image without attachment",
			messageType: MessageImage,
			content:     MessageContent{},
			wantErr:     true,
		},
		{
			name:        "Unknown type",
			messageType: "voice",
			content:     MessageContent{Text: "hello"},
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.content.Validate(tt.messageType)
			if (err != nil) != tt.wantErr {
				t.Errorf("MessageContent.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFileAttachment_Validate(t *testing.T) {
	tests := []struct {
		name     string
		file     FileAttachment
		wantType MessageType
		wantErr  bool
	}{
		{
			name:     "PDF document",
			file:     FileAttachment{FileName: "cv.pdf", FileURL: "uploads/cv.pdf", FileSize: 1024, MimeType: "application/pdf"},
			wantType: MessageFile,
		},
		{
			name:     "PNG image",
			file:     FileAttachment{FileName: "badge.png", FileURL: "uploads/badge.png", FileSize: 512, MimeType: "image/png"},
			wantType: MessageImage,
		},
		{
			name:     "MP4 video",
			file:     FileAttachment{FileName: "intro.mp4", FileURL: "uploads/intro.mp4", FileSize: 1 << 20, MimeType: "video/mp4"},
			wantType: MessageVideo,
		},
		{
			name:    "Disallowed mime type",
			file:    FileAttachment{FileName: "run.exe", FileURL: "uploads/run.exe", FileSize: 1024, MimeType: "application/x-msdownload"},
			wantErr: true,
		},
		{
			name:    "Oversized file",
			file:    FileAttachment{FileName: "big.pdf", FileURL: "uploads/big.pdf", FileSize: MaxFileSize + 1, MimeType: "application/pdf"},
			wantErr: true,
		},
		{
			name:    "Missing name",
			file:    FileAttachment{FileURL: "uploads/cv.pdf", FileSize: 1024, MimeType: "application/pdf"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mt, err := tt.file.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("FileAttachment.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && mt != tt.wantType {
				t.Errorf("FileAttachment.Validate() type = %v, want %v", mt, tt.wantType)
			}
		})
	}
}

func TestConversation_ParticipantRole(t *testing.T) {
	applicant := uuid.New()
	recruiter := uuid.New()
	conv := &Conversation{
		ID:          uuid.New(),
		ApplicantID: applicant,
		RecruiterID: recruiter,
		Status:      ConversationActive,
	}

	if role, err := conv.ParticipantRole(applicant); err != nil || role != SenderApplicant {
		t.Errorf("expected applicant role, got %v err %v", role, err)
	}
	if role, err := conv.ParticipantRole(recruiter); err != nil || role != SenderRecruiter {
		t.Errorf("expected recruiter role, got %v err %v", role, err)
	}
	if _, err := conv.ParticipantRole(uuid.New()); err == nil {
		t.Error("expected error for non-participant")
	}
}

func TestConversation_StatusGates(t *testing.T) {
	tests := []struct {
		status      ConversationStatus
		canMessage  bool
		canBeReport bool
	}{
		{ConversationActive, true, true},
		{ConversationUnderReview, true, false},
		{ConversationReported, false, false},
		{ConversationClosed, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			conv := &Conversation{Status: tt.status}
			if got := conv.CanAcceptMessages(); got != tt.canMessage {
				t.Errorf("CanAcceptMessages() = %v, want %v", got, tt.canMessage)
			}
			if got := conv.CanBeReported(); got != tt.canBeReport {
				t.Errorf("CanBeReported() = %v, want %v", got, tt.canBeReport)
			}
		})
	}
}
