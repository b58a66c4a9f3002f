// Package logtail reads the tail of shutter's diagnostic log for the in-app
// log overlay.
//
// Read uses a ring buffer, so memory stays at O(maxLines) no matter how large
// the file is. Parse turns one zerolog JSON line into an Entry the UI can
// style:
//
//	lines, _ := logtail.Read(path, 200)
//	for _, line := range lines {
//		e := logtail.Parse(line)
//		fmt.Println(e.Time, e.Level, e.Component, e.Message)
//	}
package logtail
