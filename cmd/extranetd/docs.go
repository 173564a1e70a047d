package main

// General API documentation for swaggo. Run `swag init -g cmd/extranetd/docs.go` to regenerate docs/.
//
// @title           extranetd API
// @version         1.0
// @description     HTTP API listing LoRA adapters and hypernetworks for the extra networks browser.
//
// @contact.name   extranetd maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
