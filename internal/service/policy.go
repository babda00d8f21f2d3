package service

import "github.com/gatherhub/gatherhub/internal/domain"

// AccessPolicy centralises every role/ownership decision so handlers
// and usecases never compare roles inline.
type AccessPolicy struct{}

func NewAccessPolicy() *AccessPolicy {
	return &AccessPolicy{}
}

// CanCreateEvent: administrators only.
func (p *AccessPolicy) CanCreateEvent(r domain.Requester) bool {
	return r.IsAdmin()
}

// CanManageEvent: the creator or an administrator.
func (p *AccessPolicy) CanManageEvent(event domain.Event, r domain.Requester) bool {
	return r.IsAdmin() || (!r.IsAnonymous() && event.CreatedBy == r.ID)
}

// CanViewEvent: public events are visible to everyone, private ones to
// their creator and administrators.
func (p *AccessPolicy) CanViewEvent(event domain.Event, r domain.Requester) bool {
	return event.IsPublic || p.CanManageEvent(event, r)
}

// CanRegister: any authenticated caller.
func (p *AccessPolicy) CanRegister(r domain.Requester) bool {
	return !r.IsAnonymous()
}

// CanCancelRegistration: the registration's owner or an administrator.
func (p *AccessPolicy) CanCancelRegistration(reg domain.Registration, r domain.Requester) bool {
	return r.IsAdmin() || (!r.IsAnonymous() && reg.UserID == r.ID)
}

// CanManageCategories: administrators only.
func (p *AccessPolicy) CanManageCategories(r domain.Requester) bool {
	return r.IsAdmin()
}

// CanViewStats: administrators only.
func (p *AccessPolicy) CanViewStats(r domain.Requester) bool {
	return r.IsAdmin()
}
