// Package query renders parameterized detection queries for threat hunting.
//
// # Overview
//
// The query packages are organised in layers:
//   - param: typed values that appear inside queries (Port, TimeUnit, TimeWindow)
//   - render: the stage pipeline and the catalogue of hunting templates
//   - errors: the InvalidParameter / UnknownPattern taxonomy
//
// Data flows one way: the caller builds param values, fills a template and
// receives complete query text to hand to a detection engine.
//
// # Usage
//
//	w, err := param.NewTimeWindow(30, param.Seconds)
//	if err != nil {
//	    return err
//	}
//	text, err := query.Render(render.NetworkFromApplication{
//	    AppNames:          []string{"winword.exe"},
//	    Window:            w,
//	    ExcludeSystemUser: true,
//	})
//
// # Guarantees
//
// Rendering never performs I/O and never returns partial text. Every
// template is a plain value, so a single template may be rendered from many
// goroutines at once.
package query
