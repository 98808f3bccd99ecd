package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/bhlabz/wheat-growth-maps/internal/delivery"
	"github.com/bhlabz/wheat-growth-maps/internal/notification"
	"github.com/bhlabz/wheat-growth-maps/internal/properties"
	"github.com/common-nighthawk/go-figure"
	bannercolor "github.com/fatih/color"
	"github.com/joho/godotenv"
)

func printBanner() {
	figure1 := figure.NewFigure("Wheat", "isometric1", true)
	figure2 := figure.NewFigure("Maps", "isometric1", true)
	bannercolor.Cyan(figure1.String())
	bannercolor.Cyan(figure2.String())
	fmt.Println()
}

func run(lastDate time.Time) (exitCode int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("\n\033[31mPANIC: %v\033[0m\n", r)

			stack := debug.Stack()
			errMessage := fmt.Sprintf("Wheat growth map update panic:\n\n%v\n\nStack trace:\n%s", r, stack)
			if err := notification.SendDiscordErrorNotification(errMessage); err != nil {
				fmt.Printf("\033[31mFailed to send notification: %s\033[0m\n", err.Error())
			}
			exitCode = 1
		}
	}()

	endDate := time.Now()
	fmt.Println("======================================================================")
	fmt.Println("Wheat growth maps - incremental update")
	fmt.Println("======================================================================")
	fmt.Printf("\nLast processed date: %s\n", lastDate.Format("2006-01-02"))
	fmt.Printf("Search window: %s - %s\n", lastDate.Format("2006-01-02"), endDate.Format("2006-01-02"))
	fmt.Printf("Cloud cover ceiling: %d%%\n", properties.CloudCoverCeiling)

	result, err := delivery.UpdateMaps(context.Background(), lastDate)
	if err != nil {
		fmt.Printf("\n\033[31mUpdate failed: %s\033[0m\n", err.Error())
		if notifyErr := notification.SendDiscordErrorNotification(fmt.Sprintf("Wheat growth map update failed: %s", err.Error())); notifyErr != nil {
			fmt.Printf("\033[31mFailed to send notification: %s\033[0m\n", notifyErr.Error())
		}
		return 1
	}

	if len(result.NewDates) == 0 {
		fmt.Println("\n\033[33mNo new observation dates. Nothing to update.\033[0m")
		return 0
	}

	fmt.Println("\n======================================================================")
	fmt.Println("\033[32mUpdate complete!\033[0m")
	fmt.Println("======================================================================")
	fmt.Printf("\nNew dates added: %d\n", len(result.NewDates))
	fmt.Printf("Total observation dates: %d\n", result.TotalDates)
	fmt.Printf("Total pixels: %d\n", result.TotalPixels)
	fmt.Println("\nAdded dates:")
	for _, date := range result.NewDates {
		fmt.Printf("  - %s (%d pixels)\n", date, result.PixelCounts[date])
	}

	summary := fmt.Sprintf("Wheat growth maps updated.\n\nNew dates: %s\nTotal observation dates: %d\nTotal pixels: %d",
		strings.Join(result.NewDates, ", "), result.TotalDates, result.TotalPixels)
	if err := notification.SendDiscordSuccessNotification(summary); err != nil {
		fmt.Printf("\033[33mFailed to send notification: %s\033[0m\n", err.Error())
	}
	return 0
}

func main() {
	lastDateArg := properties.DefaultLastDate
	for i, arg := range os.Args {
		if strings.HasPrefix(arg, "--last-date=") {
			lastDateArg = strings.TrimPrefix(arg, "--last-date=")
			break
		} else if arg == "--last-date" && i+1 < len(os.Args) {
			lastDateArg = os.Args[i+1]
			break
		}
	}

	if err := godotenv.Load(); err != nil {
		fmt.Println("\033[33mNo .env file found, using process environment\033[0m")
	}

	printBanner()

	lastDate, err := time.Parse("2006-01-02", lastDateArg)
	if err != nil {
		fmt.Printf("\033[31mInvalid --last-date value: %s (expected YYYY-MM-DD)\033[0m\n", lastDateArg)
		os.Exit(1)
	}

	os.Exit(run(lastDate))
}
