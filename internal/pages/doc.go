// Package pages turns registry entries into view records for the extra
// networks browser. Each add-on kind gets one Page; all pages share the same
// record shape and differ only in the prompt token and the fields they fill.
package pages
