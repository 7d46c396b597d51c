// Package render holds the renderer contract shared by the HTML, cURL and
// prompt generators, a name-keyed Registry, and the options each generator
// receives.
package render
