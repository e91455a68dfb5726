package models

// CanModify reports whether actor may mutate or delete the course:
// admins, or the instructor that created it.
func CanModify(actor *User, course *Course) bool {
	if actor == nil || course == nil {
		return false
	}
	return actor.Role == RoleAdmin || course.CreatorID == actor.ID
}

// CanViewLesson reports whether actor may read the lesson's content.
// Free lessons are open to everyone; paid ones need an enrollment or
// modify rights on the course.
func CanViewLesson(actor *User, course *Course, lesson *Lesson, enrolled bool) bool {
	if lesson != nil && lesson.IsFree {
		return true
	}
	return enrolled || CanModify(actor, course)
}
