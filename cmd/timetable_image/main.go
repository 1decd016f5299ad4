package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Freeeeeet/college_scheduler/internal/export"
	"github.com/Freeeeeet/college_scheduler/internal/repository/memory"
	"github.com/Freeeeeet/college_scheduler/internal/service"
)

func main() {
	output := flag.String("o", "timetable.png", "output PNG file")
	flag.Parse()

	ctx := context.Background()
	svc := service.NewScheduleService(memory.NewStore(), nil, zap.NewNop())

	if err := seed(ctx, svc); err != nil {
		fmt.Printf("Ошибка подготовки данных: %v\n", err)
		os.Exit(1)
	}

	rows := svc.GetSchedule(ctx)
	tables := export.BuildTimetables(rows)

	imageData, err := export.RenderPNG(tables)
	if err != nil {
		fmt.Printf("Ошибка генерации изображения: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*output, imageData, 0644); err != nil {
		fmt.Printf("Ошибка сохранения файла: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Изображение успешно сохранено в %s\n", *output)
	fmt.Printf("🏫 Аудиторий: %d\n", len(tables))
	fmt.Printf("📊 Занятий: %d\n", len(rows))
}

// seed заполняет хранилище тестовой неделей
func seed(ctx context.Context, svc *service.ScheduleService) error {
	ada, err := svc.AddTeacher(ctx, service.Form{service.FieldName: "Ada Lovelace"})
	if err != nil {
		return err
	}
	grace, err := svc.AddTeacher(ctx, service.Form{service.FieldName: "Grace Hopper"})
	if err != nil {
		return err
	}

	algebra, err := svc.AddCourse(ctx, service.Form{service.FieldName: "Algebra", service.FieldTeacherID: ada.ID})
	if err != nil {
		return err
	}
	compilers, err := svc.AddCourse(ctx, service.Form{service.FieldName: "Compilers", service.FieldTeacherID: grace.ID})
	if err != nil {
		return err
	}

	roomA, err := svc.AddClass(ctx, service.Form{service.FieldName: "Room A", service.FieldRoomNumber: "101"})
	if err != nil {
		return err
	}
	lab, err := svc.AddClass(ctx, service.Form{service.FieldName: "Lab", service.FieldRoomNumber: "7"})
	if err != nil {
		return err
	}

	slots := []service.Form{
		{service.FieldDay: "Monday", service.FieldStartTime: "09:00", service.FieldEndTime: "10:30", service.FieldCourseID: algebra.ID, service.FieldClassID: roomA.ID},
		{service.FieldDay: "Tuesday", service.FieldStartTime: "08:00", service.FieldEndTime: "09:00", service.FieldCourseID: compilers.ID, service.FieldClassID: lab.ID},
		{service.FieldDay: "Wednesday", service.FieldStartTime: "13:00", service.FieldEndTime: "15:00", service.FieldCourseID: algebra.ID, service.FieldClassID: roomA.ID},
		{service.FieldDay: "Friday", service.FieldStartTime: "11:30", service.FieldEndTime: "12:30", service.FieldCourseID: compilers.ID, service.FieldClassID: lab.ID},
		{service.FieldDay: "Saturday", service.FieldStartTime: "10:00", service.FieldEndTime: "11:00", service.FieldCourseID: compilers.ID, service.FieldClassID: roomA.ID},
	}
	for _, slot := range slots {
		if _, err := svc.AddScheduleItem(ctx, slot); err != nil {
			return err
		}
	}
	return nil
}
