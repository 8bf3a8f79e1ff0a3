// Package batch reads DOS .BAT files the way COMMAND.COM does.
//
// A Processor turns the raw lines of a batch file into executable lines,
// applying @ echo suppression, %0-%9 parameter and %NAME% variable
// substitution, and decodes them into Command values. Executing those
// commands is left to the caller, see package shell.
package batch
