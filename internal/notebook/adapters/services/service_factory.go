// Package services содержит реализации сервисов идентификаторов и паролей.
package services

import svc "notebook/internal/notebook/ports/services"

// ServiceFactory собирает сервисы идентификаторов и паролей.
type ServiceFactory struct {
	passwordService svc.PasswordService
	identityService svc.IdentityService
}

// NewServiceFactory создает фабрику сервисов.
func NewServiceFactory(bcryptCost int) *ServiceFactory {
	return &ServiceFactory{
		passwordService: NewBcrypt(bcryptCost),
		identityService: NewIdentity(),
	}
}

// PasswordService возвращает сервис паролей.
func (f *ServiceFactory) PasswordService() svc.PasswordService {
	return f.passwordService
}

// IdentityService возвращает генератор идентификаторов.
func (f *ServiceFactory) IdentityService() svc.IdentityService {
	return f.identityService
}
