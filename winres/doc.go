// Package winres loads string tables and resources through the
// Windows loader, which also takes care of MUI satellites.
package winres
