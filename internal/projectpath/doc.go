// Package projectpath resolves job input references against a project
// root.
//
// Upstream job outputs are referenced relative to the project directory
// ("Refine3D/job010/run_data.star"); validators need absolute paths for
// existence checks while emitted commands always carry the relative
// form. Resolver provides both directions and never touches the
// filesystem.
package projectpath
