package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/daylog/internal/rawstore"
	"github.com/sadopc/daylog/internal/schema"
)

func newLogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record a manual entry (mood, sauna, trip)",
	}
	cmd.AddCommand(newLogMoodCmd(a), newLogSaunaCmd(a), newLogTripCmd(a))
	return cmd
}

func newLogMoodCmd(a *app) *cobra.Command {
	var (
		date   string
		energy int
		notes  string
	)

	cmd := &cobra.Command{
		Use:   "mood <1-5>",
		Short: "Log mood (and optionally energy and notes) for a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mood, err := strconv.Atoi(args[0])
			if err != nil || mood < 1 || mood > 5 {
				return fmt.Errorf("mood must be an integer 1-5, got %q", args[0])
			}
			date, err := resolveDate(date)
			if err != nil {
				return err
			}

			obs := []rawstore.Observation{manualObs(date, "mood", strconv.Itoa(mood))}
			if energy != 0 {
				if energy < 1 || energy > 5 {
					return fmt.Errorf("energy must be 1-5, got %d", energy)
				}
				obs = append(obs, manualObs(date, "energy", strconv.Itoa(energy)))
			}
			if notes != "" {
				obs = append(obs, manualObs(date, "notes", notes))
			}

			return appendManual(a, cmd, date, obs)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "day to log (YYYY-MM-DD, default today)")
	cmd.Flags().IntVar(&energy, "energy", 0, "energy level 1-5")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form note for the day")
	return cmd
}

func newLogSaunaCmd(a *app) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "sauna",
		Short: "Mark a sauna session for a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := resolveDate(date)
			if err != nil {
				return err
			}
			return appendManual(a, cmd, date, []rawstore.Observation{manualObs(date, "sauna", "true")})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "day to log (YYYY-MM-DD, default today)")
	return cmd
}

func newLogTripCmd(a *app) *cobra.Command {
	var (
		id      string
		depart  string
		ret     string
		city    string
		country string
		purpose string
	)

	cmd := &cobra.Command{
		Use:   "trip",
		Short: "Record a trip that had no flights (road trips, trains)",
		RunE: func(cmd *cobra.Command, args []string) error {
			dep, err := time.Parse("2006-01-02", depart)
			if err != nil {
				return fmt.Errorf("invalid --depart date %q", depart)
			}
			duration := 0
			if ret != "" {
				r, err := time.Parse("2006-01-02", ret)
				if err != nil {
					return fmt.Errorf("invalid --return date %q", ret)
				}
				if r.Before(dep) {
					return fmt.Errorf("return date %s is before departure %s", ret, depart)
				}
				duration = int(r.Sub(dep).Hours()/24) + 1
			}
			if id == "" {
				id = "manual-" + depart
			}

			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			err = st.AppendManualTrip(rawstore.ManualTrip{
				TripID:             id,
				DepartureDate:      depart,
				ReturnDate:         ret,
				DestinationCity:    city,
				DestinationCountry: country,
				Purpose:            purpose,
				DurationDays:       duration,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged trip %s to %s\n", id, city)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "trip id (default manual-<depart>)")
	cmd.Flags().StringVar(&depart, "depart", "", "departure date YYYY-MM-DD")
	cmd.Flags().StringVar(&ret, "return", "", "return date YYYY-MM-DD (empty for ongoing)")
	cmd.Flags().StringVar(&city, "city", "", "destination city")
	cmd.Flags().StringVar(&country, "country", "", "destination country")
	cmd.Flags().StringVar(&purpose, "purpose", "personal", "trip purpose")
	cmd.MarkFlagRequired("depart")
	cmd.MarkFlagRequired("city")
	return cmd
}

func resolveDate(date string) (string, error) {
	if date == "" {
		return time.Now().Format("2006-01-02"), nil
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return "", fmt.Errorf("invalid date %q, want YYYY-MM-DD", date)
	}
	return date, nil
}

func manualObs(date, field, value string) rawstore.Observation {
	return rawstore.Observation{
		Date:       date,
		Source:     schema.SourceManual,
		Field:      field,
		Value:      value,
		ObservedAt: time.Now().UTC(),
	}
}

func appendManual(a *app, cmd *cobra.Command, date string, obs []rawstore.Observation) error {
	st, err := a.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	n, err := st.AppendObservations(obs)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "logged %d entries for %s\n", n, date)
	return nil
}
