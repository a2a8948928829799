// Package main Tessera Recruitment API
//
//	@title						Tessera Recruitment API
//	@version					1.0
//	@description				Team recruitment lifecycle and pod materialization service.
//
//	@host						localhost:8080
//	@BasePath					/api/v1
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"
//
//	@tag.name					Recruitment
//	@tag.description			Postings, applications and pods
//
//	@tag.name					Jobs
//	@tag.description			Background job control
package main
