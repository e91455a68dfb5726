package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanModify(t *testing.T) {
	course := &Course{CreatorID: 10}

	owner := &User{Role: RoleInstructor}
	owner.ID = 10
	otherInstructor := &User{Role: RoleInstructor}
	otherInstructor.ID = 11
	admin := &User{Role: RoleAdmin}
	admin.ID = 12
	student := &User{Role: RoleStudent}
	student.ID = 13

	assert.True(t, CanModify(owner, course))
	assert.True(t, CanModify(admin, course))
	assert.False(t, CanModify(otherInstructor, course))
	assert.False(t, CanModify(student, course))
}

func TestCanModifyNilActor(t *testing.T) {
	assert.False(t, CanModify(nil, &Course{CreatorID: 1}))
}

func TestCanViewLesson(t *testing.T) {
	course := &Course{CreatorID: 10}
	free := &Lesson{IsFree: true}
	paid := &Lesson{IsFree: false}

	owner := &User{Role: RoleInstructor}
	owner.ID = 10
	student := &User{Role: RoleStudent}
	student.ID = 20

	// Free lessons are open to everyone, enrolled or not
	assert.True(t, CanViewLesson(nil, course, free, false))
	assert.True(t, CanViewLesson(student, course, free, false))

	// Paid lessons need an enrollment or modify rights
	assert.False(t, CanViewLesson(nil, course, paid, false))
	assert.False(t, CanViewLesson(student, course, paid, false))
	assert.True(t, CanViewLesson(student, course, paid, true))
	assert.True(t, CanViewLesson(owner, course, paid, false))
}

func TestClampProgress(t *testing.T) {
	assert.Equal(t, 0.0, ClampProgress(-5))
	assert.Equal(t, 0.0, ClampProgress(0))
	assert.Equal(t, 42.5, ClampProgress(42.5))
	assert.Equal(t, 100.0, ClampProgress(100))
	assert.Equal(t, 100.0, ClampProgress(150))
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleStudent))
	assert.True(t, ValidRole(RoleInstructor))
	assert.True(t, ValidRole(RoleAdmin))
	assert.False(t, ValidRole("teacher"))
	assert.False(t, ValidRole(""))
}

func TestValidLessonType(t *testing.T) {
	assert.True(t, ValidLessonType("video"))
	assert.True(t, ValidLessonType("pdf"))
	assert.True(t, ValidLessonType("text"))
	assert.False(t, ValidLessonType("audio"))
	assert.False(t, ValidLessonType(""))
}
