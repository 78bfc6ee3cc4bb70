// Package apiconfig models the credentials used to talk to the Cainiao
// logistics gateway: app key and secret, access code, provider id and the
// gateway URL. Several configs may be stored; exactly one usable config is
// selected for each request or sync run.
package apiconfig
