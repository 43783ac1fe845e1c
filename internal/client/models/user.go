// Package models defines the client-side data model of TrackMate:
// users, their departments, tasks and the credential exchange types.
package models

import (
	"regexp"
	"strings"

	"github.com/kalviumcommunity/69-Sanya-Capstone-TrackMate/internal/common"
)

// Role distinguishes the two kinds of accounts.
type Role string

const (
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// Department is either unset ("") or one of the fixed values below.
type Department string

const (
	DepartmentUnset  Department = ""
	DepartmentHR     Department = "HR"
	DepartmentTech   Department = "Tech"
	DepartmentDesign Department = "Design"
)

// Departments lists the assignable departments in display order.
var Departments = []Department{DepartmentHR, DepartmentTech, DepartmentDesign}

// Valid reports whether d is unset or one of Departments.
func (d Department) Valid() bool {
	if d == DepartmentUnset {
		return true
	}
	for _, known := range Departments {
		if d == known {
			return true
		}
	}
	return false
}

// ParseDepartment matches s case-insensitively against Departments.
// An empty string means unset.
func ParseDepartment(s string) (Department, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DepartmentUnset, nil
	}
	for _, d := range Departments {
		if strings.EqualFold(s, string(d)) {
			return d, nil
		}
	}
	return DepartmentUnset, common.ErrInvalidDepartment
}

// Document is a file uploaded at signup, served by the API under Path.
type Document struct {
	Path string `json:"path"`
}

// User is a roster entry as returned by the API.
type User struct {
	ID         string     `json:"_id" validate:"required"`
	Username   string     `json:"username" validate:"required"`
	Email      string     `json:"email,omitempty"`
	Role       Role       `json:"role,omitempty"`
	Department Department `json:"department,omitempty" validate:"omitempty,oneof=HR Tech Design"`
	Document   *Document  `json:"document,omitempty"`
}

var imageDocument = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif)$`)

// HasIdentity reports whether the record can be targeted by actions.
func (u *User) HasIdentity() bool {
	return u != nil && u.ID != ""
}

// HasDocument reports whether the user uploaded a document.
func (u *User) HasDocument() bool {
	return u != nil && u.Document != nil && u.Document.Path != ""
}

// HasImageDocument reports whether the document can be shown inline.
func (u *User) HasImageDocument() bool {
	return u.HasDocument() && imageDocument.MatchString(u.Document.Path)
}

// DocumentURL resolves the document path against the API base URL.
func (u *User) DocumentURL(baseURL string) string {
	if !u.HasDocument() {
		return ""
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(u.Document.Path, "/")
}
