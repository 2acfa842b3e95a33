package model

import (
    "strings"
    "time"
)

// Account represents a login identity as stored in the `accounts` table
// together with its 1:1 Profile from the `profiles` table.  Repositories
// always load both rows at once; an Account without a Profile is never
// returned.
//
// Fields:
//  ID           – accounts.id
//  Username     – unique login name.
//  Email        – unique email address.
//  PasswordHash – bcrypt hash; never serialized.
//  FirstName    – optional given name.
//  LastName     – optional family name.
//  IsActive     – global account flag, kept equal to Profile.Active.
//  IsStaff      – true for ADMIN and SUPER_ADMIN.
//  IsSuperuser  – true for SUPER_ADMIN.
type Account struct {
    ID           uint64
    Username     string
    Email        string
    PasswordHash string
    FirstName    string
    LastName     string
    IsActive     bool
    IsStaff      bool
    IsSuperuser  bool
    CreatedAt    time.Time
    UpdatedAt    time.Time
    Profile      Profile
}

// Profile holds the condominium specific attributes of an Account.  UnitID
// is a weak reference into the housing units owned by the resource layer:
// deleting the unit clears it, it never deletes the profile.
type Profile struct {
    ID        uint64
    AccountID uint64
    Role      Role
    Phone     *string
    UnitID    *uint64
    Active    bool
    CreatedAt time.Time
    UpdatedAt time.Time
}

// Active reports whether the account may authenticate.
func (a Account) Active() bool { return a.IsActive && a.Profile.Active }

// FullName is "first last" trimmed, falling back to the username.
func (a Account) FullName() string {
    if n := strings.TrimSpace(a.FirstName + " " + a.LastName); n != "" {
        return n
    }
    return a.Username
}

// SetRole updates the profile role and the account flags derived from it.
func (a *Account) SetRole(r Role) {
    a.Profile.Role = r
    a.IsStaff = r.IsStaff()
    a.IsSuperuser = r == RoleSuperAdmin
}

// SetActive toggles both activation flags together.
func (a *Account) SetActive(active bool) {
    a.IsActive = active
    a.Profile.Active = active
}

// RevokedToken models a row of the `token_blacklist` table.  Rows are only
// ever inserted; a blacklisted refresh token identifier stays blacklisted.
type RevokedToken struct {
    JTI           string    // token_blacklist.jti
    AccountID     uint64    // token_blacklist.account_id
    ExpiresAt     time.Time // token_blacklist.expires_at
    BlacklistedAt time.Time // token_blacklist.blacklisted_at
}
