/*
Package gconf implements a configuration store intended to be used as a
global, in-database configuration.

Each extension owns a single configuration object, stored under the
"_c:<package name>" key. The object is a protobuf message that knows how to
validate itself. It is loaded from the genesis file with InitConfig and can
be changed later by its owner with an update message handled by
UpdateConfigurationHandler.
*/
package gconf
