// Package modules holds the admin console features.
//
// Each subdirectory implements module.Module and is listed in
// internal/app/modules.go, which the server registers and boots in order.
package modules
